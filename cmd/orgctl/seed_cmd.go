package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dimatakoy/org-demo/internal/seed"
	"github.com/dimatakoy/org-demo/internal/service"
)

func newSeedCmd() *cobra.Command {
	options := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate positions, a department forest and employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Validate(); err != nil {
				return err
			}

			database, logger, err := connect(cmd.Context())
			if err != nil {
				return err
			}

			result, err := seed.NewSeeder(service.NewDirectoryService(database), logger).Run(cmd.Context(), options)
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"positions":   result.Positions,
				"departments": result.Departments,
				"employees":   result.Employees,
			}).Info("database seeded")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&options.Departments, "departments", options.Departments, "target number of departments")
	flags.IntVar(&options.Employees, "employees", options.Employees, "number of employees to create")
	flags.IntVar(&options.BatchSize, "batch-size", options.BatchSize, "employees inserted per batch")
	flags.IntVar(&options.MaxDepth, "max-depth", options.MaxDepth, "deepest department level")
	flags.Float64Var(&options.RootChance, "root-chance", options.RootChance, "probability of starting a new root department")
	flags.Int64Var(&options.Seed, "seed", options.Seed, "random seed")
	return cmd
}
