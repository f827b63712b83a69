package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/exitcode"
	"github.com/gyeh/datenorm/internal/normalize"
)

var templatesFamily string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the input templates in search order",
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesFamily, "family", "", "Only list one family (slash, dash, text, compact, rfc)")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	log := mustLogger()

	reg, err := cfg.Registry()
	if err != nil {
		log.Error().Err(err).Msg("invalid template config")
		os.Exit(exitcode.UsageError)
	}

	list := reg.All()
	if templatesFamily != "" {
		f, ok := normalize.ParseFamily(templatesFamily)
		if !ok {
			log.Error().Str("family", templatesFamily).Msg("unknown family")
			os.Exit(exitcode.UsageError)
		}
		list = reg.ByFamily(f)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tFAMILY\tPATTERN\tGO LAYOUT")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Key, t.Family, t.Pattern, t.Layout())
	}
	return tw.Flush()
}
