package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/config"
	"github.com/dimatakoy/org-demo/internal/db"
	"github.com/dimatakoy/org-demo/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgctl",
		Short:         "Maintenance tools for the org directory database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connect loads configuration, then opens and migrates the database.
func connect(ctx context.Context) (*gorm.DB, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, database, cfg.DatabaseDriver); err != nil {
		return nil, nil, err
	}
	return database, logger, nil
}
