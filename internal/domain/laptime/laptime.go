// Package laptime converts qualifying segment times into fractional seconds.
//
// Accepted forms:
//   - "0 days 00:01:23.456000" (elapsed time with a day prefix)
//   - "00:01:23.456" and "1:23.456"
//   - "83.456" (already numeric seconds, returned unchanged)
//
// Anything else is reported as missing, never as an error.
package laptime

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/pkg/metrics"
)

const day = 24 * time.Hour

// maxDays is the largest day count a time.Duration can hold.
const maxDays = math.MaxInt64 / int64(day)

// Parse converts text into seconds. Blank and NaT-like values are missing.
func Parse(text string) model.Float {
	v, _ := parse(text)
	return v
}

// parse returns the value and false when text was present but not a duration.
func parse(text string) (model.Float, bool) {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case "", "nat", "nan", "none", "null", "<na>":
		return model.Missing, true
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Some(f), true
	}

	var days int64
	if i := strings.Index(s, "day"); i >= 0 {
		n, err := strconv.ParseInt(strings.TrimSpace(s[:i]), 10, 64)
		if err != nil {
			return model.Missing, false
		}
		days = n
		s = strings.TrimPrefix(s[i+len("day"):], "s")
		s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	}

	clock := time.Duration(0)
	if s != "" {
		d, ok := parseClock(s)
		if !ok {
			return model.Missing, false
		}
		clock = d
	}

	if days > maxDays || days < -maxDays {
		return model.Missing, false
	}
	dayPart := time.Duration(days) * day
	total := dayPart + clock
	if (clock > 0 && total < dayPart) || (clock < 0 && total > dayPart) {
		return model.Missing, false
	}
	return model.Some(total.Seconds()), true
}

// parseClock reads [-]H:MM:SS[.f] or M:SS[.f].
func parseClock(s string) (time.Duration, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.Split(s, ":")
	var h, m, sec string
	switch len(parts) {
	case 2:
		h, m, sec = "0", parts[0], parts[1]
	case 3:
		h, m, sec = parts[0], parts[1], parts[2]
	default:
		return 0, false
	}
	for _, p := range []string{h, m} {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			return 0, false
		}
	}
	if sec == "" || strings.Trim(sec, "0123456789.") != "" {
		return 0, false
	}

	d, err := time.ParseDuration(h + "h" + m + "m" + sec + "s")
	if err != nil {
		return 0, false
	}
	if neg {
		d = -d
	}
	return d, true
}

// Normalize returns a copy of records with Q1Seconds, Q2Seconds and Q3Seconds
// derived from the Q1, Q2 and Q3 text. It is deterministic, so running it again
// over its own output yields the same seconds.
func Normalize(records []model.QualifyingRecord) []model.QualifyingRecord {
	out := make([]model.QualifyingRecord, len(records))
	for i, r := range records {
		r.Q1Seconds = field(r.Q1)
		r.Q2Seconds = field(r.Q2)
		r.Q3Seconds = field(r.Q3)
		out[i] = r
	}
	return out
}

func field(text string) model.Float {
	v, ok := parse(text)
	if !ok {
		metrics.RecordTimeParseFailure()
	}
	return v
}
