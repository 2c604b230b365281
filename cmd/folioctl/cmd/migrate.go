package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/db"
)

func MigrateCmd(cfg *config.Config) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				return db.RunMigrations(database.DB, cfg.DBDriver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				return db.MigrateDown(database.DB, cfg.DBDriver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				status, err := db.MigrationStatus(database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, s := range status {
					applied := "pending"
					if s.State == goose.StateApplied {
						applied = s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(out, "%-6d %-40s %s\n", s.Source.Version, filepath.Base(s.Source.Path), applied)
				}
				return nil
			})
		},
	})

	return migrateCmd
}

func withDB(cfg *config.Config, fn func(*sqlx.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	return fn(database)
}
