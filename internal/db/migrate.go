package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/config"
	"github.com/dimatakoy/org-demo/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; SQLite, used for local runs and tests, is auto-migrated from
// the models.
func Migrate(ctx context.Context, database *gorm.DB, driver string) error {
	switch driver {
	case config.DriverPostgres:
		return migratePostgres(ctx, database)
	case config.DriverSQLite:
		return AutoMigrate(database)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func AutoMigrate(database *gorm.DB) error {
	if err := database.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func migratePostgres(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrationsFS())
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
