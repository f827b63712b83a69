package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/db"
	"github.com/gyeh/datenorm/internal/exitcode"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the datenorm schema (runs and normalized_dates)",
	Long: "Applies the embedded SQL migrations that are not yet recorded in datenorm.schema_migrations.\n" +
		"Safe to run repeatedly; ingest expects it to have been run once against the target database.",
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := mustLogger()
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATENORM_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	applied, err := db.ApplyMigrations(ctx, pool, log)
	if err != nil {
		pool.Close()
		log.Error().Err(err).Int("applied", applied).Msg("migration failed")
		os.Exit(exitcode.ConvertError)
	}

	if applied == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema already up to date")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
	return nil
}
