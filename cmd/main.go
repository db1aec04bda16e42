package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/quali/internal/app"
	"github.com/okian/quali/internal/config"
	"github.com/okian/quali/pkg/logger"
	"github.com/okian/quali/pkg/metrics"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, logger.Get())
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// run loads configuration, applies command-line overrides and executes one
// pipeline batch. It returns the process exit code. Output paths go to stdout;
// usage and failure messages go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, log logger.Logger) int {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return 1
	}

	if err := applyFlags(cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Error(ctx, "invalid arguments", logger.Error(err))
		return 2
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log.Named("pipeline")))
	res, runErr := svc.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics file", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}

	if runErr != nil {
		log.Error(ctx, "pipeline run failed", logger.String("run_id", res.RunID), logger.Error(runErr))
		fmt.Fprintf(stderr, "error: %v\n", runErr)
		return 1
	}

	fmt.Fprintf(stdout, "timeline:   %s\nrace order: %s\n", res.Paths.Timeline, res.Paths.RaceOrder)
	return 0
}

// applyFlags overrides cfg with command-line flags and revalidates it.
func applyFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("quali", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.InputDir, "input-dir", cfg.InputDir, "directory of qualifying result extracts")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for the timeline and race-order documents")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg.Validate()
}
