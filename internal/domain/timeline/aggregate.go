package timeline

import (
	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/internal/domain/scoring"
	"github.com/okian/quali/internal/domain/stint"
)

// Aggregate builds the driver's season. Every scheduled event yields exactly
// one summary, appended to the stint current at that point. A new stint is
// opened when the driver takes part in an event under a different team than
// the current one; events the driver missed never change the stint.
func Aggregate(s *Season, driver string) model.DriverSeason {
	b := stint.NewBuilder(s.firstTeam[driver])

	for _, e := range s.events {
		rec, ok := e.Record(driver)
		if !ok {
			b.Append(model.AbsentSummary(e.Name))
			continue
		}

		b.Switch(rec.TeamName)
		r := scoring.Score(rec, e.Pole, e.Team(b.Team()))
		b.Append(model.NewEventSummary(e.Name, r.Position, r.GapToPole, r.TeammateGap))
	}

	return model.DriverSeason{
		Year:   s.Year,
		Driver: driver,
		Teams:  b.Build(),
	}
}

// AggregateAll builds every driver-season sequentially, seasons in
// first-seen order and drivers in first-seen order within a season.
func AggregateAll(ix *Index) []model.DriverSeason {
	var out []model.DriverSeason
	for _, s := range ix.seasons {
		for _, d := range s.drivers {
			out = append(out, Aggregate(s, d))
		}
	}
	return out
}
