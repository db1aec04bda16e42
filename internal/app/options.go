package service

import (
	"github.com/okian/quali/internal/config"
	"github.com/okian/quali/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithInputDir sets the directory of input extracts.
func WithInputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.inputDir = dir
		}
	}
}

// WithOutputDir sets the directory the documents are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithFormat selects json or yaml output.
func WithFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.format = format
		}
	}
}

// WithExtensions sets the recognized input file extensions.
func WithExtensions(exts []string) Option {
	return func(s *Service) {
		s.extensions = exts
	}
}

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithOutputNames sets the document names without extension.
func WithOutputNames(timeline, raceOrder string) Option {
	return func(s *Service) {
		if timeline != "" {
			s.timelineName = timeline
		}
		if raceOrder != "" {
			s.raceOrderName = raceOrder
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig applies every pipeline setting from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		for _, opt := range []Option{
			WithInputDir(cfg.InputDir),
			WithOutputDir(cfg.OutputDir),
			WithFormat(cfg.OutputFormat),
			WithExtensions(cfg.Extensions),
			WithWorkerCount(cfg.WorkerCount),
			WithQueueSize(cfg.QueueSize),
			WithOutputNames(cfg.TimelineFile, cfg.RaceOrderFile),
		} {
			opt(s)
		}
	}
}
