package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers supported by the service.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Tracing  TracingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `envconfig:"APP_NAME" default:"orgchart-service"`
	Env                   string `envconfig:"APP_ENV" default:"development"`
	Host                  string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port                  string `envconfig:"APP_PORT" default:"8080"`
	Version               string `envconfig:"APP_VERSION" default:"dev"`
	RequestTimeoutSeconds int    `envconfig:"HTTP_REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `envconfig:"POSTGRES_DSN"`
	MaxConns       int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"POSTGRES_MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"POSTGRES_RUN_MIGRATIONS" default:"true"`
	ConnMaxIdleSec int32  `envconfig:"POSTGRES_CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"POSTGRES_CONN_MAX_LIFE_SECONDS" default:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

// CacheConfig controls read model caching.
type CacheConfig struct {
	TTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// AuthConfig defines API token parameters.
type AuthConfig struct {
	JWTSecret             string `envconfig:"AUTH_JWT_SECRET" default:"dev-secret"`
	AccessTokenTTLMinutes int    `envconfig:"AUTH_ACCESS_TOKEN_TTL_MINUTES" default:"60"`
	Disabled              bool   `envconfig:"AUTH_DISABLED" default:"false"`
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled     bool    `envconfig:"TRACING_ENABLED" default:"false"`
	Endpoint    string  `envconfig:"TRACING_OTLP_ENDPOINT" default:"localhost:4318"`
	Insecure    bool    `envconfig:"TRACING_OTLP_INSECURE" default:"true"`
	SampleRatio float64 `envconfig:"TRACING_SAMPLE_RATIO" default:"1"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORAGE_DRIVER=%s", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be within [0,1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsProduction returns true when the application runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}
