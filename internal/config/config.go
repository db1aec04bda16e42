// Package config defines the pipeline configuration and how it is loaded.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// InputDir is the folder of per-season result extracts.
	InputDir string `koanf:"input_dir"`

	// OutputDir receives the timeline and race-order documents.
	OutputDir string `koanf:"output_dir"`

	// OutputFormat is json or yaml.
	OutputFormat string `koanf:"output_format"`

	// Extensions lists the recognized input file extensions.
	Extensions []string `koanf:"extensions"`

	// WorkerCount sets the number of aggregation workers. 1 runs sequentially.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the aggregation job queue.
	QueueSize int `koanf:"queue_size"`

	// TimelineFile and RaceOrderFile are output base names without extension.
	TimelineFile  string `koanf:"timeline_file"`
	RaceOrderFile string `koanf:"race_order_file"`

	// MetricsFile, when set, receives a Prometheus textfile dump after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		InputDir:      "data/results_data",
		OutputDir:     "data",
		OutputFormat:  FormatJSON,
		Extensions:    []string{".csv", ".tsv"},
		WorkerCount:   runtime.NumCPU(),
		QueueSize:     1024,
		TimelineFile:  "career_timeline_data",
		RaceOrderFile: "race_order",
	}
}

// Validate checks the fields a run cannot do without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.InputDir) == "":
		return fmt.Errorf("%w: input_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputDir) == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case c.TimelineFile == "" || c.RaceOrderFile == "":
		return fmt.Errorf("%w: output file names must not be empty", ErrInvalidConfig)
	case c.TimelineFile == c.RaceOrderFile:
		return fmt.Errorf("%w: timeline_file and race_order_file must differ", ErrInvalidConfig)
	case len(c.Extensions) == 0:
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.OutputFormat) {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown output_format %q", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}
