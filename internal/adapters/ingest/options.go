package ingest

import (
	"strings"

	"github.com/okian/quali/pkg/logger"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithExtensions restricts the recognized extensions. ".tsv" is read tab
// separated, everything else comma separated.
func WithExtensions(exts []string) Option {
	return func(r *Reader) {
		if len(exts) == 0 {
			return
		}
		r.delimiters = make(map[string]rune, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			delim := ','
			if ext == ".tsv" {
				delim = '\t'
			}
			r.delimiters[ext] = delim
		}
	}
}

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}
