// Package ingest reads a directory of qualifying result extracts into one
// unified table.
//
// Every file with a recognized extension is parsed on its own; a file that
// fails is logged and skipped so one bad extract does not sink the run.
// Only when nothing parses does ReadDir fail, with ErrEmptyInput.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/quali/pkg/logger"
	"github.com/okian/quali/pkg/metrics"
)

const utf8BOM = "\ufeff"

// Reader reads tabular files from a directory.
type Reader struct {
	delimiters map[string]rune
	logger     logger.Logger
}

// NewReader creates a Reader. By default .csv files are comma separated and
// .tsv files tab separated.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		delimiters: map[string]rune{".csv": ',', ".tsv": '\t'},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Nop()
	}
	return r
}

// ReadDir parses every recognized file in dir, in file name order, and
// concatenates them.
func (r *Reader) ReadDir(ctx context.Context, dir string) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInputDir, dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	t := &Table{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		delim, ok := r.delimiters[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}

		path := filepath.Join(dir, e.Name())
		cols, rows, err := r.ReadFile(path, delim)
		if err != nil {
			metrics.RecordFileSkipped()
			metrics.RecordErrorByComponent("ingest", "parse_error")
			r.logger.Warn(ctx, "skipping unreadable file", logger.String("file", e.Name()), logger.Error(err))
			t.Skipped = append(t.Skipped, path)
			continue
		}

		metrics.RecordFileRead()
		metrics.RecordRowsIngested(len(rows))
		r.logger.Info(ctx, "read file", logger.String("file", e.Name()), logger.Int("rows", len(rows)))
		t.addColumns(cols)
		t.Rows = append(t.Rows, rows...)
		t.Files = append(t.Files, path)
	}

	if len(t.Files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyInput, dir)
	}
	r.logger.Info(ctx, "combined input files",
		logger.Int("files", len(t.Files)),
		logger.Int("skipped", len(t.Skipped)),
		logger.Int("rows", len(t.Rows)),
	)
	return t, nil
}

// ReadFile parses one delimited file with a header row. Any malformed line
// fails the whole file.
func (r *Reader) ReadFile(path string, delim rune) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}

	// index[i] is the column name of field i, "" for ignored fields.
	index := make([]string, len(header))
	var cols []string
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if isIndexColumn(h) {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		index[i] = h
		cols = append(cols, h)
	}
	if len(cols) == 0 {
		return nil, nil, errors.New("no columns in header")
	}

	base := filepath.Base(path)
	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		cells := make(map[string]string, len(cols))
		for i, v := range rec {
			if index[i] != "" {
				cells[index[i]] = v
			}
		}
		rows = append(rows, Row{File: base, Line: line, Cells: cells})
	}
	return cols, rows, nil
}

// isIndexColumn matches the unnamed index a DataFrame writes by default.
func isIndexColumn(h string) bool {
	return h == "" || strings.HasPrefix(h, "Unnamed:")
}
