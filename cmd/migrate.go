package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dtroode/landregistry-server/database"
	"github.com/dtroode/landregistry-server/internal/config"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", database.Migrate),
		migrationCmd("down", "Roll back the most recent migration", database.Rollback),
		migrationCmd("status", "Show applied and pending migrations", database.Status),
	)

	return cmd
}

func migrationCmd(use, short string, run func(ctx context.Context, dsn string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return errors.New("DATABASE_DSN is empty, nothing to migrate")
			}
			return run(cmd.Context(), cfg.Database.DSN)
		},
	}
}
