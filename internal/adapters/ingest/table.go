package ingest

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/pkg/logger"
	"github.com/okian/quali/pkg/metrics"
)

// Row is one data line of an input file.
type Row struct {
	File  string
	Line  int
	Cells map[string]string
}

// Get returns the trimmed cell for column; absent columns read as "".
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// Table is the concatenation of every parsed input file.
type Table struct {
	// Columns is the union of all parsed headers in first-seen order.
	Columns []string
	Rows    []Row
	// Files lists the parsed files, Skipped the ones that failed.
	Files   []string
	Skipped []string
}

func (t *Table) addColumns(cols []string) {
	have := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			have[c] = struct{}{}
			t.Columns = append(t.Columns, c)
		}
	}
}

// Validate reports, in schema order, the required columns no file provided.
func (t *Table) Validate() error {
	have := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	var missing []string
	for _, c := range model.RequiredColumns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Records converts the rows into qualifying records, leaving the seconds
// fields for time normalization. Rows without a usable year, event or
// driver cannot be keyed and are dropped with a warning; every other
// unreadable field becomes missing.
func (t *Table) Records(ctx context.Context, log logger.Logger) []model.QualifyingRecord {
	out := make([]model.QualifyingRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec, reason := convert(row)
		if reason != "" {
			metrics.RecordRowDropped()
			if log != nil {
				log.Warn(ctx, "dropping row",
					logger.String("file", row.File),
					logger.Int("line", row.Line),
					logger.String("reason", reason),
				)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

func convert(row Row) (model.QualifyingRecord, string) {
	year, ok := parseYear(row.Get(model.ColYear))
	if !ok {
		return model.QualifyingRecord{}, "unreadable Year " + strconv.Quote(row.Get(model.ColYear))
	}
	event := row.Get(model.ColEventName)
	if event == "" {
		return model.QualifyingRecord{}, "empty EventName"
	}
	driver := row.Get(model.ColBroadcastName)
	if driver == "" {
		return model.QualifyingRecord{}, "empty BroadcastName"
	}

	return model.QualifyingRecord{
		DriverNumber:  trimFloat(row.Get(model.ColDriverNumber)),
		BroadcastName: driver,
		TeamName:      row.Get(model.ColTeamName),
		Position:      parseFloat(row.Get(model.ColPosition)),
		Q1:            row.Get(model.ColQ1),
		Q2:            row.Get(model.ColQ2),
		Q3:            row.Get(model.ColQ3),
		Year:          year,
		EventName:     event,
		WetSession:    parseBool(row.Get(model.ColWetSession)),
	}, ""
}

// parseYear accepts "2023" and the "2023.0" a float column round trip produces.
func parseYear(s string) (int, bool) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

func parseFloat(s string) model.Float {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing
	}
	return model.Some(f)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// trimFloat turns "44.0" back into "44".
func trimFloat(s string) string {
	return strings.TrimSuffix(s, ".0")
}
