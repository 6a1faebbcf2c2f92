package connection

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whistlenet/services/report-api/internal/domain/relay"
	"whistlenet/services/report-api/internal/infrastructure/database/entities"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// Repository is the durable connection registry. The registry is never
// proactively swept; stale entries are only removed on disconnect events or
// when a relay delivery reports the peer gone.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts by connection_id.
func (r *Repository) Save(ctx context.Context, entry *relay.ConnectionEntry) error {
	entity := entities.WebsocketConnection{
		ConnectionID: entry.ConnectionID,
		ReportID:     entry.ReportID,
		UserType:     string(entry.Role),
		ConnectedAt:  entry.ConnectedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "connection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"report_id", "user_type", "connected_at"}),
		}).
		Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save connection entry",
			err,
			"e9f0a1b2-c3d4-4e5f-a6b7-8c9d0e1f2a3b",
		)
	}
	return nil
}

// DeleteByConnectionID removes an entry. Deleting an absent id is a no-op.
func (r *Repository) DeleteByConnectionID(ctx context.Context, connectionID string) error {
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Delete(&entities.WebsocketConnection{}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete connection entry",
			err,
			"0a1b2c3d-e4f5-4a6b-8c7d-9e0f1a2b3c4d",
		)
	}
	return nil
}

func (r *Repository) FindByReportID(ctx context.Context, reportID string) ([]*relay.ConnectionEntry, error) {
	var rows []entities.WebsocketConnection
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list connections for report",
			err,
			"2c3d4e5f-a6b7-4c8d-9e0f-1a2b3c4d5e6f",
		)
	}
	entries := make([]*relay.ConnectionEntry, 0, len(rows))
	for i := range rows {
		entry := mapEntity(rows[i])
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *Repository) FindByConnectionID(ctx context.Context, connectionID string) (*relay.ConnectionEntry, error) {
	var entity entities.WebsocketConnection
	err := r.db.WithContext(ctx).Where("connection_id = ?", connectionID).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find connection entry",
			err,
			"4e5f6a7b-c8d9-4e0f-a1b2-3c4d5e6f7a8b",
		)
	}
	entry := mapEntity(entity)
	return &entry, nil
}

func mapEntity(entity entities.WebsocketConnection) relay.ConnectionEntry {
	return relay.ConnectionEntry{
		ConnectionID: entity.ConnectionID,
		ReportID:     entity.ReportID,
		Role:         relay.Role(entity.UserType),
		ConnectedAt:  entity.ConnectedAt,
	}
}
