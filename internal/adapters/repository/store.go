// Package repository holds finished driver seasons for the duration of a run.
package repository

import (
	"context"

	"github.com/okian/quali/internal/domain/model"
)

// Store provides read/write access to aggregated seasons.
type Store interface {
	// Put stores season under its (year, driver) key. seq fixes its place in
	// List. Returns ErrDuplicate if the key is already stored.
	Put(ctx context.Context, seq int, season model.DriverSeason) error

	// List returns every season ordered by seq.
	List(ctx context.Context) []model.DriverSeason

	// Count returns the number of stored seasons.
	Count(ctx context.Context) int
}
