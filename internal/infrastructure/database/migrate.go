package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"whistlenet/services/report-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Tenant{},
		&entities.WhistleblowerReport{},
		&entities.ConversationMessage{},
		&entities.WebsocketConnection{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied report schema migrations")
	return nil
}
