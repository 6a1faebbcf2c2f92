package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the report service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"report-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"REPORT_API_PORT" envDefault:"8385"`
	LogLevel        string        `env:"REPORT_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DatabaseURL string `env:"DB_POSTGRESQL_DSN,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Report lifecycle
	ReportDeadline time.Duration `env:"REPORT_DEADLINE" envDefault:"168h"` // 7 days

	// Attachment storage (S3-compatible)
	S3Endpoint     string        `env:"REPORT_S3_ENDPOINT"`
	S3Region       string        `env:"REPORT_S3_REGION" envDefault:"eu-central-1"`
	S3Bucket       string        `env:"REPORT_S3_BUCKET"`
	S3AccessKeyID  string        `env:"REPORT_S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `env:"REPORT_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool          `env:"REPORT_S3_USE_PATH_STYLE" envDefault:"true"`
	S3PresignTTL   time.Duration `env:"REPORT_S3_PRESIGN_TTL" envDefault:"15m"`
	MaxUploadBytes int64         `env:"REPORT_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Realtime websocket gateway
	WSReadLimit      int64         `env:"WS_READ_LIMIT" envDefault:"65536"`
	WSWriteTimeout   time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	WSPongTimeout    time.Duration `env:"WS_PONG_TIMEOUT" envDefault:"60s"`
	WSAllowAllOrigin bool          `env:"WS_ALLOW_ALL_ORIGINS" envDefault:"true"`

	// Admin authentication (JWKS bearer tokens)
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024
	}
	if cfg.ReportDeadline <= 0 {
		cfg.ReportDeadline = 7 * 24 * time.Hour
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
