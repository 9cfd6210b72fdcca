package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orgwise/orgchart-service/internal/config"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(persistence.MigrateUp), string(persistence.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := persistence.MigrateUp
			if len(args) == 1 {
				direction = persistence.MigrationDirection(args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Storage.Driver != config.StorageDriverPostgres {
				return fmt.Errorf("migrations need STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}
			logger, err := observability.NewLogger(cfg.Logger, cfg.App)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return persistence.RunMigrations(cfg.Postgres.DSN, direction, logger)
		},
	}
	return cmd
}
