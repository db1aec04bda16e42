package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that may be missing. Missing values stay missing through
// every computation and serialise as null.
type Float struct {
	Value float64
	Valid bool
}

// Missing is the missing Float.
var Missing = Float{}

// Some returns a present Float. NaN and infinities are treated as missing.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Float{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (f Float) Get() (float64, bool) { return f.Value, f.Valid }

// IsMissing reports whether f holds no value.
func (f Float) IsMissing() bool { return !f.Valid }

// Is reports whether f is present and exactly equal to v.
func (f Float) Is(v float64) bool { return f.Valid && f.Value == v }

// Sub returns f - o, missing when either side is missing.
func (f Float) Sub(o Float) Float {
	if !f.Valid || !o.Valid {
		return Missing
	}
	return Some(f.Value - o.Value)
}

func (f Float) String() string {
	if !f.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Float) MarshalYAML() (interface{}, error) {
	if !f.Valid {
		return nil, nil
	}
	return f.Value, nil
}
