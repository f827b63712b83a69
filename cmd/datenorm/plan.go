package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/batch"
	"github.com/gyeh/datenorm/internal/exitcode"
)

var planSample int64

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and match stats (no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to Parquet file (required)")
	planCmd.Flags().Int64Var(&planSample, "sample", 1000, "Rows to sample; 0 reads the whole file")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := mustLogger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	norm, err := batch.NewNormalizerFromConfig(&cfg)
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rep, err := batch.Plan(context.Background(), cfg.FilePath, norm, planSample)
	if err != nil {
		log.Error().Err(err).Msg("plan failed")
		os.Exit(exitcode.ValidationError)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== datenorm plan ===")
	fmt.Fprintf(w, "File:       %s\n", rep.FilePath)
	fmt.Fprintf(w, "SHA-256:    %s\n", rep.FileSHA256)
	fmt.Fprintf(w, "Size:       %d bytes\n", rep.FileSize)
	fmt.Fprintf(w, "Total rows: %d\n", rep.NumRows)
	fmt.Fprintf(w, "Output:     %s\n", norm.Output())
	fmt.Fprintf(w, "Sampled:    %d rows (%d valid, %d invalid)\n", rep.Sampled, rep.Valid, rep.Invalid)

	fmt.Fprintln(w, "\nSelector routes (sampled):")
	printCounts(w, rep.Routes, rep.Sampled)
	fmt.Fprintln(w, "\nResolver stages (sampled):")
	printCounts(w, rep.Stages, rep.Sampled)

	if len(rep.Examples) > 0 {
		fmt.Fprintln(w, "\nUnrecognized examples:")
		for _, ex := range rep.Examples {
			fmt.Fprintf(w, "  %q\n", ex)
		}
	}
	fmt.Fprintln(w, "\nSchema validation: OK")
	return nil
}

func printCounts(w io.Writer, counts map[string]int64, total int64) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(counts[name]) / float64(total)
		}
		fmt.Fprintf(w, "  %-10s %6d (%.1f%%)\n", name, counts[name], pct)
	}
}
