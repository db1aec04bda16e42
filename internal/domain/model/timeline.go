package model

// EventSummary is a driver's outcome at one scheduled event.
type EventSummary struct {
	Round           string `json:"round" yaml:"round"`
	Position        Float  `json:"position" yaml:"position"`
	GapToPole       Float  `json:"gapToPole" yaml:"gapToPole"`
	TeammateGap     Float  `json:"teammateGap" yaml:"teammateGap"`
	HasTeammateData bool   `json:"hasTeammateData" yaml:"hasTeammateData"`
}

// NewEventSummary builds a summary; HasTeammateData follows the teammate gap.
func NewEventSummary(round string, position, gapToPole, teammateGap Float) EventSummary {
	return EventSummary{
		Round:           round,
		Position:        position,
		GapToPole:       gapToPole,
		TeammateGap:     teammateGap,
		HasTeammateData: teammateGap.Valid,
	}
}

// AbsentSummary is the summary of an event the driver did not take part in.
func AbsentSummary(round string) EventSummary {
	return NewEventSummary(round, Missing, Missing, Missing)
}

// TeamStint is a contiguous run of events a driver spent with one team in one season.
type TeamStint struct {
	Team                  string         `json:"team" yaml:"team"`
	Events                []EventSummary `json:"events" yaml:"events"`
	AvgQualifyingPosition Float          `json:"avgQualifyingPosition" yaml:"avgQualifyingPosition"`
	AvgGapToPole          Float          `json:"avgGapToPole" yaml:"avgGapToPole"`
	AvgTeammateGap        Float          `json:"avgTeammateGap" yaml:"avgTeammateGap"`
	DataCompleteness      float64        `json:"dataCompleteness" yaml:"dataCompleteness"`
}

// DriverSeason is one driver's season, split into team stints in the order
// the team changes happened.
type DriverSeason struct {
	Year   int         `json:"year" yaml:"year"`
	Driver string      `json:"driver" yaml:"driver"`
	Teams  []TeamStint `json:"teams" yaml:"teams"`
}

// SeasonKey identifies a DriverSeason.
type SeasonKey struct {
	Year   int
	Driver string
}

// Key returns the identity key of s.
func (s DriverSeason) Key() SeasonKey { return SeasonKey{Year: s.Year, Driver: s.Driver} }

// EventCount returns the number of events over all stints.
func (s DriverSeason) EventCount() int {
	n := 0
	for _, t := range s.Teams {
		n += len(t.Events)
	}
	return n
}

// RaceOrder maps a season to its event names in first-seen order.
type RaceOrder map[int][]string
