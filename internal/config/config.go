// Package config loads the pricing service configuration from the
// environment, resolving secrets from SSM Parameter Store outside local
// development.
package config

import (
	"time"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// Config is the root configuration of the pricing service.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"pricing-api" validate:"required"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	AWS           AWSConfig
	Observability ObservabilityConfig

	// Build is populated from linker flags, not the environment.
	Build BuildInfo `ignored:"true"`
}

// IsLocal reports whether the service runs in local development.
func (c *Config) IsLocal() bool {
	return c.Environment == localEnv
}

type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// DatabaseConfig configures the Postgres pool. An empty URL selects the
// in-memory catalog.
type DatabaseConfig struct {
	URL               types.SecretString `envconfig:"DATABASE_URL"`
	MaxConns          int32              `envconfig:"DB_MAX_CONNS" default:"10" validate:"min=1"`
	MinConns          int32              `envconfig:"DB_MIN_CONNS" default:"1" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   time.Duration      `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration      `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
	AutoMigrate       bool               `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// Enabled reports whether a database URL was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL.IsSet()
}

// RedisConfig configures the quote cache. An empty URL disables caching.
type RedisConfig struct {
	URL      types.SecretString `envconfig:"REDIS_URL"`
	QuoteTTL time.Duration      `envconfig:"QUOTE_CACHE_TTL" default:"15m" validate:"min=0"`
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL.IsSet()
}

type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1" validate:"required"`
	// EndpointURL overrides service endpoints, e.g. LocalStack.
	EndpointURL        string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
	PlanEventsQueueURL string `envconfig:"PLAN_EVENTS_QUEUE_URL" validate:"omitempty,url"`
}

type ObservabilityConfig struct {
	MetricsBackend  string `envconfig:"METRICS_BACKEND" default:"prometheus" validate:"oneof=prometheus cloudwatch none"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"Pricing" validate:"required"`
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType classifies configuration failures.
type ConfigErrorType string

const (
	ErrMissingEnv    ConfigErrorType = "missing_env"
	ErrSSMResolution ConfigErrorType = "ssm_resolution"
	ErrValidation    ConfigErrorType = "validation"
	ErrParsing       ConfigErrorType = "parsing"
)
