package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 100, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 0, cfg.Pagination.MaxLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_URL", "file.db")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "org.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "20")
	t.Setenv("PAGINATION_MAX_LIMIT", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 500, cfg.Pagination.MaxLimit)
}
