//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/relay"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/domain/tenant"
	"whistlenet/services/report-api/internal/infrastructure/auth"
	"whistlenet/services/report-api/internal/infrastructure/database"
	"whistlenet/services/report-api/internal/infrastructure/logger"
	connectionrepo "whistlenet/services/report-api/internal/infrastructure/repository/connection"
	reportrepo "whistlenet/services/report-api/internal/infrastructure/repository/report"
	tenantrepo "whistlenet/services/report-api/internal/infrastructure/repository/tenant"
	"whistlenet/services/report-api/internal/infrastructure/storage"
	"whistlenet/services/report-api/internal/interfaces/httpserver"
	"whistlenet/services/report-api/internal/interfaces/wsgateway"
)

var domainSet = wire.NewSet(
	tenantrepo.NewRepository,
	wire.Bind(new(tenant.Repository), new(*tenantrepo.Repository)),
	tenant.NewService,
	wire.Bind(new(report.TenantDirectory), new(*tenant.Service)),
	reportrepo.NewRepository,
	wire.Bind(new(report.Repository), new(*reportrepo.Repository)),
	reportrepo.NewMessageRepository,
	wire.Bind(new(report.MessageRepository), new(*reportrepo.MessageRepository)),
	report.NewService,
	provideStorage,
	attachment.NewService,
)

var realtimeSet = wire.NewSet(
	connectionrepo.NewRepository,
	wire.Bind(new(relay.Registry), new(*connectionrepo.Repository)),
	provideRealtime,
)

// BuildApplication assembles the report API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		domainSet,
		realtimeSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (attachment.Storage, error) {
	return storage.NewS3Storage(ctx, cfg, log)
}

// provideRealtime builds the gateway and relay together; the gateway is the
// relay's pusher and the relay handles the gateway's events.
func provideRealtime(cfg *config.Config, registry relay.Registry, log zerolog.Logger) (*wsgateway.Gateway, *relay.Service) {
	gateway := wsgateway.New(cfg, log)
	relayService := relay.NewService(registry, gateway, log)
	gateway.SetRelay(relayService)
	return gateway, relayService
}
