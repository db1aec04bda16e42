package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/quali/internal/domain/model"
)

type entry struct {
	seq    int
	season model.DriverSeason
}

// MemStore is a mutex-guarded, map-backed Store.
type MemStore struct {
	mu      sync.RWMutex
	entries map[model.SeasonKey]entry
}

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemStore{entries: make(map[model.SeasonKey]entry, cfg.sizeHint)}
}

// Put implements Store.
func (s *MemStore) Put(_ context.Context, seq int, season model.DriverSeason) error {
	key := season.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("%w: %d/%s", ErrDuplicate, key.Year, key.Driver)
	}
	s.entries[key] = entry{seq: seq, season: season}
	return nil
}

// List implements Store.
func (s *MemStore) List(_ context.Context) []model.DriverSeason {
	s.mu.RLock()
	all := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	out := make([]model.DriverSeason, len(all))
	for i, e := range all {
		out[i] = e.season
	}
	return out
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
