// Package output serializes the career timeline and the race order.
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/pkg/logger"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default document names without extension.
const (
	DefaultTimelineName  = "career_timeline_data"
	DefaultRaceOrderName = "race_order"
)

// Paths are the final locations of the written documents.
type Paths struct {
	Timeline  string
	RaceOrder string
}

// Writer writes both documents into one directory. A failed write leaves the
// previous documents in place.
type Writer struct {
	dir           string
	format        string
	timelineName  string
	raceOrderName string
	logger        logger.Logger
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:           dir,
		format:        FormatJSON,
		timelineName:  DefaultTimelineName,
		raceOrderName: DefaultRaceOrderName,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes seasons and order into temporary files next to their final
// names and renames them into place once both encoded.
func (w *Writer) Write(ctx context.Context, seasons []model.DriverSeason, order model.RaceOrder) (Paths, error) {
	enc, err := NewEncoder(w.format)
	if err != nil {
		return Paths{}, err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("%w: create %s: %w", ErrWrite, w.dir, err)
	}

	if seasons == nil {
		seasons = []model.DriverSeason{}
	}
	if order == nil {
		order = model.RaceOrder{}
	}

	paths := Paths{
		Timeline:  filepath.Join(w.dir, w.timelineName+enc.Ext()),
		RaceOrder: filepath.Join(w.dir, w.raceOrderName+enc.Ext()),
	}

	timelineTmp, err := w.encodeTemp(enc, w.timelineName, seasons)
	if err != nil {
		return Paths{}, err
	}
	defer os.Remove(timelineTmp)

	orderTmp, err := w.encodeTemp(enc, w.raceOrderName, order)
	if err != nil {
		return Paths{}, err
	}
	defer os.Remove(orderTmp)

	if err := ctx.Err(); err != nil {
		return Paths{}, err
	}

	backup, err := w.moveAside(w.timelineName, paths.Timeline)
	if err != nil {
		return Paths{}, err
	}
	if err := os.Rename(timelineTmp, paths.Timeline); err != nil {
		w.restore(ctx, backup, paths.Timeline)
		return Paths{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(orderTmp, paths.RaceOrder); err != nil {
		w.restore(ctx, backup, paths.Timeline)
		return Paths{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if backup != "" {
		os.Remove(backup)
	}

	w.logger.Info(ctx, "wrote output",
		logger.String("timeline", paths.Timeline),
		logger.String("race_order", paths.RaceOrder),
		logger.Int("seasons", len(seasons)),
	)
	return paths, nil
}

func (w *Writer) encodeTemp(enc Encoder, name string, v any) (string, error) {
	f, err := os.CreateTemp(w.dir, "."+name+"-*"+enc.Ext())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := enc.Encode(f, v); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: encode %s: %w", ErrWrite, name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return f.Name(), nil
}

// moveAside renames an existing document to a reserved name in the output
// directory and returns that name, or "" when path does not exist yet.
func (w *Writer) moveAside(name, path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	f, err := os.CreateTemp(w.dir, "."+name+"-*.bak")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	f.Close()
	if err := os.Rename(path, f.Name()); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return f.Name(), nil
}

// restore puts the document saved by moveAside back at path. Without a
// backup, whatever was renamed to path is removed.
func (w *Writer) restore(ctx context.Context, backup, path string) {
	var err error
	if backup == "" {
		err = os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	} else {
		err = os.Rename(backup, path)
	}
	if err != nil {
		w.logger.Warn(ctx, "could not restore previous output",
			logger.String("path", path),
			logger.Error(err),
		)
	}
}
