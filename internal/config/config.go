package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string        `env:"APP_PORT" envDefault:"8080"`
	DatabaseDriver  string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`

	Pagination PaginationOptions
}

type PaginationOptions struct {
	DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" envDefault:"100"`
	// MaxLimit caps the requested page size; 0 disables the cap.
	MaxLimit int `env:"PAGINATION_MAX_LIMIT" envDefault:"0"`
}

var envFiles = []string{".env", ".env.local"}

func Load() (Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL required")
	}
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.Pagination.DefaultLimit < 0 {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT must be non-negative, got %d", c.Pagination.DefaultLimit)
	}
	if c.Pagination.MaxLimit < 0 {
		return fmt.Errorf("PAGINATION_MAX_LIMIT must be non-negative, got %d", c.Pagination.MaxLimit)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
