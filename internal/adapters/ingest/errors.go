package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEmptyInput means no file in the input directory could be parsed.
	ErrEmptyInput = errors.New("no input files could be parsed")
	// ErrInputDir means the input directory could not be listed.
	ErrInputDir = errors.New("read input directory")
)

// SchemaError reports required columns absent from the unified table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
