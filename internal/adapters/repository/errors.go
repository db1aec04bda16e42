package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrDuplicate = errors.New("season already stored")
)
