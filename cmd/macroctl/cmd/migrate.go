package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/macrotrack/internal/config"
	"github.com/templui/macrotrack/internal/db"
	"github.com/templui/macrotrack/internal/logger"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, false)
		},
	})
	return cmd
}

func migrate(cmd *cobra.Command, up bool) error {
	ctx := cmd.Context()
	cfg := config.Load()
	logger.Init(logger.Options{Development: cfg.IsDevelopment(), Environment: cfg.AppEnv})

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if up {
		err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	} else {
		err = db.MigrateDown(ctx, database.DB, cfg.DBDriver)
	}
	if err != nil {
		return err
	}

	version, err := db.Version(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
