package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoder writes one document in a concrete format.
type Encoder interface {
	// Ext is the file extension including the dot.
	Ext() string
	Encode(w io.Writer, v any) error
}

// NewEncoder returns the encoder for format ("json" or "yaml").
func NewEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return jsonEncoder{}, nil
	case FormatYAML:
		return yamlEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type jsonEncoder struct{}

func (jsonEncoder) Ext() string { return ".json" }

func (jsonEncoder) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type yamlEncoder struct{}

func (yamlEncoder) Ext() string { return ".yaml" }

func (yamlEncoder) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
