package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Apply the schema for the configured storage backend.

For STORAGE_BACKEND=postgres this creates the users, goals and fitness_logs
tables and their indexes if they are missing. The file backend has no schema
and the command only reports that.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DBType != "postgres" {
			color.Yellow("Storage backend %q has no schema; nothing to migrate.", cfg.DBType)
			return nil
		}

		repos, err := openStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer repos.Close()

		if err := repos.Migrate(cmd.Context()); err != nil {
			color.Red("Migration failed: %v", err)
			return err
		}
		color.Green("Schema is up to date.")
		return nil
	},
}
