package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/datenorm/internal/normalize"
)

// DefaultBatchSize is the number of Parquet rows read per batch.
const DefaultBatchSize = 1024

// Config holds all runtime configuration for a datenorm run.
type Config struct {
	DSN            string
	FilePath       string
	OutPath        string
	LogFormat      string // "text" or "json"
	LogLevel       string
	OutputTemplate string
	BatchSize      int
	Force          bool
	KeepRows       bool // keep rows from earlier runs of the same file on --force
	Templates      []TemplateConfig
}

// TemplateConfig declares an extra input template, appended after the
// built-in ones.
type TemplateConfig struct {
	Key     string `yaml:"key"`
	Family  string `yaml:"family"`
	Pattern string `yaml:"pattern"`
}

// yamlConfig is the on-disk YAML structure. Zero values leave flags alone.
type yamlConfig struct {
	OutputTemplate string           `yaml:"output_template"`
	LogFormat      string           `yaml:"log_format"`
	LogLevel       string           `yaml:"log_level"`
	BatchSize      int              `yaml:"batch_size"`
	Templates      []TemplateConfig `yaml:"templates"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.OutputTemplate != "" {
		c.OutputTemplate = yc.OutputTemplate
	}
	if yc.LogFormat != "" {
		c.LogFormat = yc.LogFormat
	}
	if yc.LogLevel != "" {
		c.LogLevel = yc.LogLevel
	}
	if yc.BatchSize != 0 {
		c.BatchSize = yc.BatchSize
	}
	c.Templates = append(c.Templates, yc.Templates...)

	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// Registry returns the built-in template registry extended with any
// configured templates.
func (c *Config) Registry() (*normalize.Registry, error) {
	if len(c.Templates) == 0 {
		return normalize.Default(), nil
	}
	extra := make([]normalize.Template, 0, len(c.Templates))
	for _, tc := range c.Templates {
		f, ok := normalize.ParseFamily(tc.Family)
		if !ok {
			return nil, fmt.Errorf("unknown template family %q for %q in config", tc.Family, tc.Key)
		}
		extra = append(extra, normalize.Template{Key: tc.Key, Family: f, Pattern: tc.Pattern})
	}
	reg, err := normalize.Default().Extend(extra)
	if err != nil {
		return nil, fmt.Errorf("config templates: %w", err)
	}
	return reg, nil
}

// Output compiles the configured output template against reg.
func (c *Config) Output(reg *normalize.Registry) (normalize.Output, error) {
	pattern := c.OutputTemplate
	if pattern == "" {
		pattern = normalize.DefaultOutputPattern
	}
	return normalize.ParseOutput(pattern, reg)
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	reg, err := c.Registry()
	if err != nil {
		return err
	}
	if _, err := c.Output(reg); err != nil {
		return err
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATENORM_DB_URL is required")
	}
	return nil
}

// ReadBatchSize returns BatchSize, or DefaultBatchSize when unset.
func (c *Config) ReadBatchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}
