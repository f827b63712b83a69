package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/batch"
	"github.com/gyeh/datenorm/internal/exitcode"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Normalize a Parquet file of raw dates into a new Parquet file",
	RunE:  runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to input Parquet file (required)")
	f.StringVar(&cfg.OutPath, "out", "", "Path to output Parquet file (required)")
	f.IntVar(&cfg.BatchSize, "batch-size", 0, "Rows read per batch")
	_ = convertCmd.MarkFlagRequired("file")
	_ = convertCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := mustLogger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	summary, err := batch.Convert(context.Background(), log, &cfg)
	if err != nil {
		if pe, ok := err.(*batch.PipelineError); ok && pe.Phase == "preflight" {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("convert failed")
			os.Exit(exitcode.ValidationError)
		}
		log.Error().Err(err).Msg("convert failed")
		os.Exit(exitcode.ConvertError)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Convert complete: %d rows written, %d unrecognized (%.1fs)\n",
		summary.RowsWritten, summary.RowsInvalid, summary.DurationTotal.Seconds())
	if summary.RowsInvalid > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
