package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/davidtseymour/personal-productivity-system/internal/db"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				if err := db.RunMigrations(ctx, database.DB, driver); err != nil {
					return err
				}
				return printVersion(ctx, database, driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				if err := db.MigrateDown(ctx, database.DB, driver); err != nil {
					return err
				}
				return printVersion(ctx, database, driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), printVersion)
		},
	})

	return migrateCmd
}

func withDB(ctx context.Context, fn func(ctx context.Context, database *sqlx.DB, driver string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(ctx, database, cfg.DBDriver)
}

func printVersion(ctx context.Context, database *sqlx.DB, driver string) error {
	version, err := db.Version(ctx, database.DB, driver)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("schema version: %d\n", version)
	return nil
}
