package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/exitcode"
	"github.com/gyeh/datenorm/internal/normalize"
)

var formatJSON bool

var formatCmd = &cobra.Command{
	Use:   "format [date...]",
	Short: "Normalize dates given as arguments, or one per line on stdin",
	Example: `  datenorm format "Nov 21, 2025 13:45" 20251121134500
  datenorm format -t "%Y-%m-%d" < dates.txt
  datenorm format --json "Fri, 21 Nov 2025 13:45:00 +0000"`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().BoolVar(&formatJSON, "json", false, "Write one JSON object per input instead of plain lines")
	rootCmd.AddCommand(formatCmd)
}

// formatResult is one line of --json output.
type formatResult struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	Valid    bool   `json:"valid"`
	Stage    string `json:"stage"`
	Family   string `json:"family,omitempty"`
	Template string `json:"template,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runFormat(cmd *cobra.Command, args []string) error {
	log := mustLogger()

	reg, err := cfg.Registry()
	if err != nil {
		log.Error().Err(err).Msg("invalid template config")
		os.Exit(exitcode.UsageError)
	}
	out, err := cfg.Output(reg)
	if err != nil {
		log.Error().Err(err).Str("template", cfg.OutputTemplate).Msg("invalid output template")
		os.Exit(exitcode.UsageError)
	}
	res := normalize.NewResolver(reg)

	failed, err := formatInputs(cmd.OutOrStdout(), cmd.InOrStdin(), args, res, out, formatJSON)
	if err != nil {
		log.Error().Err(err).Msg("format failed")
		os.Exit(exitcode.ValidationError)
	}
	if failed > 0 {
		log.Warn().Int("unrecognized", failed).Msg("some inputs did not match any template")
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

// formatInputs renders args, or every line of in when args is empty, to w.
// It returns how many inputs were unrecognized. Everything rendered before
// an error is flushed to w.
func formatInputs(w io.Writer, in io.Reader, args []string, res *normalize.Resolver, out normalize.Output, asJSON bool) (failed int, err error) {
	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); err == nil {
			err = ferr
		}
	}()
	enc := json.NewEncoder(bw)

	emit := func(input string) error {
		r := formatResult{Input: input, Output: normalize.Sentinel, Stage: "none"}
		m, err := res.Resolve(input)
		if err != nil {
			failed++
			r.Error = err.Error()
		} else {
			r.Output = out.Render(m.Instant)
			r.Valid = true
			r.Stage = m.Stage.String()
			if m.Stage != normalize.StageFastPath {
				r.Family = m.Template.Family.String()
				r.Template = m.Template.Key
			}
		}
		if asJSON {
			return enc.Encode(r)
		}
		_, err = fmt.Fprintln(bw, r.Output)
		return err
	}

	if len(args) > 0 {
		for _, a := range args {
			if err := emit(a); err != nil {
				return failed, err
			}
		}
		return failed, nil
	}
	if err := eachLine(in, emit); err != nil {
		return failed, fmt.Errorf("read stdin: %w", err)
	}
	return failed, nil
}

func eachLine(r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
