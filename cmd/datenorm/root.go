package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/datenorm/internal/config"
	"github.com/gyeh/datenorm/internal/exitcode"
	"github.com/gyeh/datenorm/internal/logging"
	"github.com/gyeh/datenorm/internal/normalize"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "datenorm",
	Short: "Normalize free-form date strings into one format",
	Long: "Detects the layout of free-form date/time strings and renders them with a single output template.\n" +
		"Strings that match no known layout render as \"" + normalize.Sentinel + "\".",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; the environment is used as-is.
		_ = godotenv.Load()
		if cfg.DSN == "" {
			cfg.DSN = os.Getenv("DATENORM_DB_URL")
		}
		if configPath == "" {
			return nil
		}
		// Flags given on the command line win over the file.
		flagged := cfg
		if err := cfg.LoadFromFile(configPath); err != nil {
			return err
		}
		fs := cmd.Flags()
		if fs.Changed("log-format") {
			cfg.LogFormat = flagged.LogFormat
		}
		if fs.Changed("log-level") {
			cfg.LogLevel = flagged.LogLevel
		}
		if fs.Changed("output-template") {
			cfg.OutputTemplate = flagged.OutputTemplate
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATENORM_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	pf.StringVarP(&cfg.OutputTemplate, "output-template", "t", normalize.DefaultOutputPattern,
		"Output template: field tokens (Y M D H m s Mon Month Weekday Offset), a strftime pattern, or a template key")
}

// mustLogger builds the configured logger or exits with a usage error.
func mustLogger() zerolog.Logger {
	log, err := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fallback, _ := logging.Setup("text", "")
		fallback.Error().Err(err).Msg("invalid logging flags")
		os.Exit(exitcode.UsageError)
	}
	return log
}
