package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
