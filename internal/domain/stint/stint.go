// Package stint folds event summaries into team stints and reduces them to
// per-stint statistics.
package stint

import "github.com/okian/quali/internal/domain/model"

// Builder accumulates the stints of one driver-season. It is local to a
// single aggregation and must not be shared.
type Builder struct {
	stints []accumulator
}

type accumulator struct {
	team   string
	events []model.EventSummary
}

// NewBuilder opens the first stint with team.
func NewBuilder(team string) *Builder {
	return &Builder{stints: []accumulator{{team: team}}}
}

// Team returns the team of the open stint.
func (b *Builder) Team() string {
	return b.stints[len(b.stints)-1].team
}

// Switch seals the open stint and opens one for team. It reports whether a
// new stint was opened; switching to the current team is a no-op.
func (b *Builder) Switch(team string) bool {
	if team == b.Team() {
		return false
	}
	b.stints = append(b.stints, accumulator{team: team})
	return true
}

// Append adds an event to the open stint.
func (b *Builder) Append(e model.EventSummary) {
	last := &b.stints[len(b.stints)-1]
	last.events = append(last.events, e)
}

// Build finalizes every stint in the order they were opened.
func (b *Builder) Build() []model.TeamStint {
	out := make([]model.TeamStint, len(b.stints))
	for i, s := range b.stints {
		events := make([]model.EventSummary, len(s.events))
		copy(events, s.events)
		out[i] = Finalize(s.team, events)
	}
	return out
}

// Finalize computes the statistics of a stint. Averages skip missing values
// and are missing when nothing remains; completeness is the share of events
// with a teammate gap, 0 for an empty stint.
func Finalize(team string, events []model.EventSummary) model.TeamStint {
	if events == nil {
		events = []model.EventSummary{}
	}
	positions := make([]model.Float, len(events))
	poleGaps := make([]model.Float, len(events))
	mateGaps := make([]model.Float, len(events))
	for i, e := range events {
		positions[i] = e.Position
		poleGaps[i] = e.GapToPole
		mateGaps[i] = e.TeammateGap
	}

	return model.TeamStint{
		Team:                  team,
		Events:                events,
		AvgQualifyingPosition: Mean(positions),
		AvgGapToPole:          Mean(poleGaps),
		AvgTeammateGap:        Mean(mateGaps),
		DataCompleteness:      Completeness(events),
	}
}

// Mean averages the present values.
func Mean(values []model.Float) model.Float {
	var sum float64
	n := 0
	for _, v := range values {
		if v.Valid {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return model.Missing
	}
	return model.Some(sum / float64(n))
}

// Completeness is the share of events with a teammate gap.
func Completeness(events []model.EventSummary) float64 {
	if len(events) == 0 {
		return 0
	}
	n := 0
	for _, e := range events {
		if e.TeammateGap.Valid {
			n++
		}
	}
	return float64(n) / float64(len(events))
}
