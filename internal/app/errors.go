package service

import (
	"context"
	"errors"

	"github.com/okian/quali/internal/adapters/ingest"
	"github.com/okian/quali/internal/adapters/output"
)

var (
	// ErrUnknownSeason is returned for a job whose year is not indexed.
	ErrUnknownSeason = errors.New("unknown season")
	// ErrIncomplete means fewer seasons were aggregated than scheduled.
	ErrIncomplete = errors.New("aggregation incomplete")
)

// errorType labels err for the errors_by_component metric.
func errorType(err error) string {
	var schema *ingest.SchemaError
	switch {
	case errors.Is(err, ingest.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ingest.ErrInputDir):
		return "input_dir"
	case errors.As(err, &schema):
		return "schema"
	case errors.Is(err, output.ErrWrite), errors.Is(err, output.ErrUnknownFormat):
		return "output"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "aggregate"
	}
}
