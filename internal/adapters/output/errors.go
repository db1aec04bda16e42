package output

import "errors"

var (
	// ErrUnknownFormat is returned for an output format without an encoder.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrWrite wraps any failure while producing the documents.
	ErrWrite = errors.New("write output")
)
