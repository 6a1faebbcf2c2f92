package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/domain/tenant"
	"whistlenet/services/report-api/internal/infrastructure/auth"
	"whistlenet/services/report-api/internal/interfaces/httpserver/handlers"
	"whistlenet/services/report-api/internal/interfaces/httpserver/middlewares"
	v1 "whistlenet/services/report-api/internal/interfaces/httpserver/routes/v1"
	"whistlenet/services/report-api/internal/interfaces/wsgateway"
)

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg     *config.Config
	engine  *gin.Engine
	log     zerolog.Logger
	auth    *auth.Validator
	gateway *wsgateway.Gateway
}

// New constructs the HTTP server with default middleware and routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	reportService *report.Service,
	tenantService *tenant.Service,
	attachmentService *attachment.Service,
	authValidator *auth.Validator,
	gateway *wsgateway.Gateway,
) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.CORS(),
		middlewares.Metrics(),
		middlewares.RequestLoggerWithLogger(log),
	)

	handlerProvider := handlers.NewProvider(cfg, reportService, tenantService, attachmentService, log)
	routeProvider := v1.NewRoutes(handlerProvider, authValidator)
	registerCoreRoutes(engine, cfg, routeProvider, authValidator, gateway)

	return &HttpServer{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		auth:    authValidator,
		gateway: gateway,
	}
}

// Engine exposes the router for tests.
func (s *HttpServer) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("report-api HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	if s.gateway != nil {
		s.gateway.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, routes *v1.Routes, authValidator *auth.Validator, gateway *wsgateway.Gateway) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": cfg.ServiceName, "status": "ok"})
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		if authValidator != nil && !authValidator.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gateway != nil {
		engine.GET("/ws", gateway.Handle)
	}

	routes.Register(engine.Group("/"))
}
