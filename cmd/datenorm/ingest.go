package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/batch"
	"github.com/gyeh/datenorm/internal/db"
	"github.com/gyeh/datenorm/internal/exitcode"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Normalize a Parquet file of raw dates into the database",
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to Parquet file (required)")
	f.IntVar(&cfg.BatchSize, "batch-size", 0, "Rows read per batch")
	f.BoolVar(&cfg.Force, "force", false, "Re-normalize even if this file and output template were already loaded")
	f.BoolVar(&cfg.KeepRows, "keep-rows", false, "Keep rows from the replaced batch on --force")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := mustLogger()
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := batch.Run(ctx, pool, log, &cfg)
	if err != nil {
		pool.Close()
		if pe, ok := err.(*batch.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("ingest failed")
			switch pe.Phase {
			case "preflight":
				os.Exit(exitcode.ValidationError)
			case "stage":
				os.Exit(exitcode.CopyError)
			default:
				os.Exit(exitcode.ConvertError)
			}
		}
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(exitcode.ConvertError)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingest complete: %d rows written, %d unrecognized (%.1fs)\n",
		summary.RowsWritten, summary.RowsInvalid, summary.DurationTotal.Seconds())
	if summary.RowsInvalid > 0 {
		pool.Close()
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
