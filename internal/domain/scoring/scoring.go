// Package scoring computes per-event qualifying metrics: the best segment
// time, the gap to pole and the gap to the team-mate.
package scoring

import "github.com/okian/quali/internal/domain/model"

const (
	polePosition = 1
	pairSize     = 2
)

// Result is a driver's scored outcome at one event.
type Result struct {
	Position    model.Float
	GapToPole   model.Float
	TeammateGap model.Float
}

// BestTime returns the time from the latest segment the driver reached:
// Q3, else Q2, else Q1, else missing. Segments are never mixed.
func BestTime(r model.QualifyingRecord) model.Float { //nolint:gocritic // records are small value types
	switch {
	case r.Q3Seconds.Valid:
		return r.Q3Seconds
	case r.Q2Seconds.Valid:
		return r.Q2Seconds
	case r.Q1Seconds.Valid:
		return r.Q1Seconds
	}
	return model.Missing
}

// PoleTime returns the Q3 time of the first record classified first.
// Missing when nobody holds position 1.
func PoleTime(event []model.QualifyingRecord) model.Float {
	for i := range event {
		if event[i].Position.Is(polePosition) {
			return event[i].Q3Seconds
		}
	}
	return model.Missing
}

// GapToPole applies, in order: no position -> missing; pole sitter -> 0;
// missing best or pole time -> missing; otherwise best - pole, unclamped.
func GapToPole(position, best, pole model.Float) model.Float {
	switch {
	case !position.Valid:
		return model.Missing
	case position.Value == polePosition:
		return model.Some(0)
	}
	return best.Sub(pole)
}

// TeammateGaps maps every driver in one team's event records to their gap
// to the other driver. Only a team of exactly two drivers with both times
// resolved produces values; any other shape leaves every driver missing.
func TeammateGaps(team []model.QualifyingRecord) map[string]model.Float {
	var drivers []string
	first := make(map[string]int)
	for i := range team {
		name := team[i].BroadcastName
		if _, ok := first[name]; ok {
			continue
		}
		first[name] = i
		drivers = append(drivers, name)
	}

	gaps := make(map[string]model.Float, len(drivers))
	for _, d := range drivers {
		gaps[d] = model.Missing
	}
	if len(drivers) != pairSize {
		return gaps
	}

	a, b := drivers[0], drivers[1]
	ta := BestTime(team[first[a]])
	tb := BestTime(team[first[b]])
	if ta.Valid && tb.Valid {
		gaps[a] = ta.Sub(tb)
		gaps[b] = tb.Sub(ta)
	}
	return gaps
}

// Score scores rec against its event's pole time and the records of its
// team at that event.
func Score(rec model.QualifyingRecord, pole model.Float, team []model.QualifyingRecord) Result { //nolint:gocritic // records are small value types
	gap, ok := TeammateGaps(team)[rec.BroadcastName]
	if !ok {
		gap = model.Missing
	}
	return Result{
		Position:    rec.Position,
		GapToPole:   GapToPole(rec.Position, BestTime(rec), pole),
		TeammateGap: gap,
	}
}
