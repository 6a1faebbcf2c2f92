package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/relay"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/domain/tenant"
	"whistlenet/services/report-api/internal/infrastructure/auth"
	"whistlenet/services/report-api/internal/infrastructure/database"
	"whistlenet/services/report-api/internal/infrastructure/logger"
	"whistlenet/services/report-api/internal/infrastructure/observability"
	connectionrepo "whistlenet/services/report-api/internal/infrastructure/repository/connection"
	reportrepo "whistlenet/services/report-api/internal/infrastructure/repository/report"
	tenantrepo "whistlenet/services/report-api/internal/infrastructure/repository/tenant"
	"whistlenet/services/report-api/internal/infrastructure/storage"
	"whistlenet/services/report-api/internal/interfaces/httpserver"
	"whistlenet/services/report-api/internal/interfaces/wsgateway"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	storageClient, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	tenantRepository := tenantrepo.NewRepository(db)
	reportRepository := reportrepo.NewRepository(db)
	messageRepository := reportrepo.NewMessageRepository(db)
	connectionRegistry := connectionrepo.NewRepository(db)

	tenantService := tenant.NewService(tenantRepository, log)
	reportService := report.NewService(cfg, reportRepository, messageRepository, tenantService, log)
	attachmentService := attachment.NewService(cfg, storageClient, log)

	gateway := wsgateway.New(cfg, log)
	relayService := relay.NewService(connectionRegistry, gateway, log)
	gateway.SetRelay(relayService)

	httpServer := httpserver.New(cfg, log, reportService, tenantService, attachmentService, authValidator, gateway)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
