package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported values of DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds relational store settings.
// Driver selects the backend; StoragePath is used by sqlite, the connection fields by postgres.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	StoragePath        string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.db"`
	Host               string `yaml:"host" env:"DB_HOST"`
	Port               string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User               string `yaml:"user" env:"DB_USER"`
	Password           string `yaml:"password" env:"DB_PASSWORD"`
	Name               string `yaml:"name" env:"DB_NAME"`
	SSLMode            string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns       int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns       int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec" env:"DB_CONN_MAX_LIFETIME_SEC" env-default:"300"`
}

// MinIOConfig holds object storage settings used by roster exports.
type MinIOConfig struct {
	Endpoint  string        `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string        `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string        `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string        `yaml:"bucket" env:"MINIO_BUCKET"`
	UseSSL    bool          `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	URLExpiry time.Duration `yaml:"export_url_ttl" env:"EXPORT_URL_TTL" env-default:"15m"`
}

// Enabled reports whether object storage has been configured at all.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// TracingConfig mirrors the standard OTEL_* variables the exporter setup depends on.
// Exporter endpoints are still read by the OTLP exporters themselves.
type TracingConfig struct {
	Disabled    bool    `yaml:"disabled" env:"OTEL_SDK_DISABLED" env-default:"false"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"student-api"`
	Protocol    string  `yaml:"protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL" env-default:"grpc"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Sampler     string  `yaml:"sampler" env:"OTEL_TRACES_SAMPLER" env-default:"parentbased_traceidratio"`
	SamplerArg  float64 `yaml:"sampler_arg" env:"OTEL_TRACES_SAMPLER_ARG" env-default:"1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables, optionally layered over a YAML file.
type AppConfig struct {
	Env      string         `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Port     string         `yaml:"port" env:"PORT" env-default:"8080"`
	Timezone string         `yaml:"timezone" env:"TZ_LOCATION" env-default:"UTC"`
	Database DatabaseConfig `yaml:"database"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// When CONFIG_PATH names a YAML file it is read first and environment variables override it.
func Load() (*AppConfig, error) {
	var cfg AppConfig

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *AppConfig) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: want %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// Usage returns a description of every supported environment variable.
func Usage() string {
	var cfg AppConfig
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}
