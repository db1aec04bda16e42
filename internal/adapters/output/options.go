package output

import "github.com/okian/quali/pkg/logger"

// Option configures a Writer.
type Option func(*Writer)

// WithFormat selects the encoding, FormatJSON or FormatYAML.
func WithFormat(format string) Option {
	return func(w *Writer) {
		if format != "" {
			w.format = format
		}
	}
}

// WithTimelineName sets the timeline document name without extension.
func WithTimelineName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.timelineName = name
		}
	}
}

// WithRaceOrderName sets the race-order document name without extension.
func WithRaceOrderName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.raceOrderName = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
