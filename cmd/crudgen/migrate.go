package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/pkg/database"
	"github.com/JaimeStill/crud-generator/pkg/logging"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert PostgreSQL schema migrations",
	}

	for _, dir := range []database.Direction{database.Up, database.Down} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(dir),
			Short: fmt.Sprintf("Apply every %s migration in database.migrations_path", dir),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(opts, cmd.Flags().Changed("config"), func(c *config.Config) {
					c.Session = config.BackendPostgres
				})
				if err != nil {
					return fmt.Errorf("config: %w", err)
				}
				return database.Migrate(&cfg.Database, dir, logging.New(&cfg.Logging))
			},
		})
	}
	return cmd
}
