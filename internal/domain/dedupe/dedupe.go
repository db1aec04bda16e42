// Package dedupe tracks which qualifying results were already seen so that
// overlapping extracts contribute each (year, event, driver) result once.
package dedupe

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/okian/quali/internal/domain/model"
)

// keySeparator cannot appear in event or driver names read from CSV cells.
const keySeparator = "\x1f"

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of distinct keys recorded.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// RecordKey identifies a driver's result at an event.
func RecordKey(r model.QualifyingRecord) string { //nolint:gocritic // records are small value types
	return strings.Join([]string{strconv.Itoa(r.Year), r.EventName, r.BroadcastName}, keySeparator)
}

// Unique keeps the first record of every (year, event, driver) and returns
// the later duplicates separately, both in input order.
func Unique(ctx context.Context, d Deduper, records []model.QualifyingRecord) (kept, dropped []model.QualifyingRecord) {
	kept = make([]model.QualifyingRecord, 0, len(records))
	for i := range records {
		if d.SeenAndRecord(ctx, RecordKey(records[i])) {
			dropped = append(dropped, records[i])
			continue
		}
		kept = append(kept, records[i])
	}
	return kept, dropped
}
