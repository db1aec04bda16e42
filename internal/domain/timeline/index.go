// Package timeline turns normalized qualifying records into per-driver
// season timelines.
//
// The records are indexed once per run (BuildIndex) into seasons, their
// event schedule and per-event lookups. The index is read-only after it is
// built, so Aggregate may be called for different drivers concurrently.
package timeline

import (
	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/internal/domain/scoring"
)

// Index is the season/event view of a unified record table.
type Index struct {
	seasons []*Season
	byYear  map[int]*Season
}

// Season holds one year's schedule and entrants.
type Season struct {
	Year      int
	events    []*Event
	byName    map[string]*Event
	drivers   []string
	firstTeam map[string]string
}

// Event holds every record of one event and its pole time.
type Event struct {
	Name     string
	Records  []model.QualifyingRecord
	Pole     model.Float
	byDriver map[string]int
}

// BuildIndex groups records by year and event. Years, events within a year
// and drivers within a year keep the order they were first seen in.
func BuildIndex(records []model.QualifyingRecord) *Index {
	ix := &Index{byYear: make(map[int]*Season)}
	for i := range records {
		r := records[i]
		s, ok := ix.byYear[r.Year]
		if !ok {
			s = &Season{
				Year:      r.Year,
				byName:    make(map[string]*Event),
				firstTeam: make(map[string]string),
			}
			ix.byYear[r.Year] = s
			ix.seasons = append(ix.seasons, s)
		}
		s.add(r)
	}
	for _, s := range ix.seasons {
		for _, e := range s.events {
			e.Pole = scoring.PoleTime(e.Records)
		}
	}
	return ix
}

func (s *Season) add(r model.QualifyingRecord) { //nolint:gocritic // records are small value types
	e, ok := s.byName[r.EventName]
	if !ok {
		e = &Event{Name: r.EventName, byDriver: make(map[string]int)}
		s.byName[r.EventName] = e
		s.events = append(s.events, e)
	}
	if _, seen := e.byDriver[r.BroadcastName]; !seen {
		e.byDriver[r.BroadcastName] = len(e.Records)
	}
	e.Records = append(e.Records, r)

	if _, seen := s.firstTeam[r.BroadcastName]; !seen {
		s.firstTeam[r.BroadcastName] = r.TeamName
		s.drivers = append(s.drivers, r.BroadcastName)
	}
}

// Seasons returns the seasons in first-seen order.
func (ix *Index) Seasons() []*Season { return ix.seasons }

// Season returns the season for year.
func (ix *Index) Season(year int) (*Season, bool) {
	s, ok := ix.byYear[year]
	return s, ok
}

// RaceOrder returns every season's event names in schedule order.
func (ix *Index) RaceOrder() model.RaceOrder {
	out := make(model.RaceOrder, len(ix.seasons))
	for _, s := range ix.seasons {
		out[s.Year] = s.EventNames()
	}
	return out
}

// Drivers returns the season's drivers in first-seen order.
func (s *Season) Drivers() []string { return s.drivers }

// Events returns the season's schedule.
func (s *Season) Events() []*Event { return s.events }

// EventNames returns the names of the season's events in schedule order.
func (s *Season) EventNames() []string {
	names := make([]string, len(s.events))
	for i, e := range s.events {
		names[i] = e.Name
	}
	return names
}

// Record returns the driver's first record at the event.
func (e *Event) Record(driver string) (model.QualifyingRecord, bool) {
	i, ok := e.byDriver[driver]
	if !ok {
		return model.QualifyingRecord{}, false
	}
	return e.Records[i], true
}

// Team returns the event's records entered under team.
func (e *Event) Team(team string) []model.QualifyingRecord {
	var out []model.QualifyingRecord
	for i := range e.Records {
		if e.Records[i].TeamName == team {
			out = append(out, e.Records[i])
		}
	}
	return out
}
