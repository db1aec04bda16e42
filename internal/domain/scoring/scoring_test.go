package scoring_test

import (
	"testing"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(driver, team string, pos float64, q1, q2, q3 model.Float) model.QualifyingRecord {
	p := model.Some(pos)
	if pos == 0 {
		p = model.Missing
	}
	return model.QualifyingRecord{
		BroadcastName: driver,
		TeamName:      team,
		Position:      p,
		Q1Seconds:     q1,
		Q2Seconds:     q2,
		Q3Seconds:     q3,
	}
}

var none = model.Missing

func s(v float64) model.Float { return model.Some(v) }

func TestBestTime(t *testing.T) {
	Convey("Given records with different segments reached", t, func() {
		Convey("When Q3 is present", func() {
			Convey("Then Q3 should win regardless of faster earlier segments", func() {
				So(scoring.BestTime(rec("A", "T", 1, s(60), s(61), s(80))), ShouldResemble, s(80))
				So(scoring.BestTime(rec("A", "T", 1, none, none, s(70))), ShouldResemble, s(70))
			})
		})

		Convey("When the driver was knocked out in Q2", func() {
			So(scoring.BestTime(rec("A", "T", 12, s(72), s(71), none)), ShouldResemble, s(71))
		})

		Convey("When the driver was knocked out in Q1", func() {
			So(scoring.BestTime(rec("A", "T", 18, s(73), none, none)), ShouldResemble, s(73))
		})

		Convey("When no segment produced a time", func() {
			So(scoring.BestTime(rec("A", "T", 0, none, none, none)).IsMissing(), ShouldBeTrue)
		})
	})
}

func TestGapToPole(t *testing.T) {
	Convey("Given gap to pole rules", t, func() {
		Convey("When position is missing", func() {
			So(scoring.GapToPole(none, s(71), s(70)).IsMissing(), ShouldBeTrue)
		})

		Convey("When the driver is on pole", func() {
			Convey("Then the gap should be exactly zero even without times", func() {
				So(scoring.GapToPole(s(1), s(70), s(70)).Is(0), ShouldBeTrue)
				So(scoring.GapToPole(s(1), none, none).Is(0), ShouldBeTrue)
			})
		})

		Convey("When best or pole time is missing", func() {
			So(scoring.GapToPole(s(5), none, s(70)).IsMissing(), ShouldBeTrue)
			So(scoring.GapToPole(s(5), s(71), none).IsMissing(), ShouldBeTrue)
		})

		Convey("When both times resolve", func() {
			So(scoring.GapToPole(s(2), s(71.5), s(70)).Is(1.5), ShouldBeTrue)
		})

		Convey("When data is inconsistent", func() {
			Convey("Then a negative gap should pass through unclamped", func() {
				So(scoring.GapToPole(s(3), s(69.5), s(70)).Is(-0.5), ShouldBeTrue)
			})
		})
	})
}

func TestPoleTime(t *testing.T) {
	Convey("Given an event's records", t, func() {
		event := []model.QualifyingRecord{
			rec("B", "T", 2, none, none, s(71.5)),
			rec("A", "T", 1, none, none, s(70)),
		}

		Convey("Then the pole time should be the Q3 of position 1", func() {
			So(scoring.PoleTime(event), ShouldResemble, s(70))
		})

		Convey("When nobody is classified first", func() {
			So(scoring.PoleTime(event[:1]).IsMissing(), ShouldBeTrue)
		})

		Convey("When the pole sitter has no Q3 time", func() {
			So(scoring.PoleTime([]model.QualifyingRecord{rec("A", "T", 1, s(80), none, none)}).IsMissing(), ShouldBeTrue)
		})
	})
}

func TestTeammateGaps(t *testing.T) {
	Convey("Given a team at one event", t, func() {
		Convey("When exactly two drivers have times", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{
				rec("A", "T", 1, none, none, s(70)),
				rec("B", "T", 2, none, none, s(71.5)),
			})

			Convey("Then the gaps should be signed and opposite", func() {
				So(gaps["A"].Is(-1.5), ShouldBeTrue)
				So(gaps["B"].Is(1.5), ShouldBeTrue)
				So(gaps["A"].Value+gaps["B"].Value, ShouldEqual, 0)
			})
		})

		Convey("When drivers reached different segments", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{
				rec("A", "T", 8, none, none, s(70.2)),
				rec("B", "T", 14, s(71), s(70.9), none),
			})

			Convey("Then each driver's best segment should be used", func() {
				So(gaps["A"].Value, ShouldAlmostEqual, -0.7, 1e-9)
				So(gaps["B"].Value, ShouldAlmostEqual, 0.7, 1e-9)
			})
		})

		Convey("When one driver has no time", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{
				rec("A", "T", 5, none, none, s(70)),
				rec("B", "T", 0, none, none, none),
			})

			Convey("Then both should be missing", func() {
				So(gaps["A"].IsMissing(), ShouldBeTrue)
				So(gaps["B"].IsMissing(), ShouldBeTrue)
			})
		})

		Convey("When only one driver is recorded", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{rec("A", "T", 1, none, none, s(70))})
			So(gaps, ShouldHaveLength, 1)
			So(gaps["A"].IsMissing(), ShouldBeTrue)
		})

		Convey("When three drivers are recorded", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{
				rec("A", "T", 1, none, none, s(70)),
				rec("B", "T", 2, none, none, s(71)),
				rec("C", "T", 3, none, none, s(72)),
			})

			Convey("Then every gap should be missing", func() {
				So(gaps, ShouldHaveLength, 3)
				for _, g := range gaps {
					So(g.IsMissing(), ShouldBeTrue)
				}
			})
		})

		Convey("When a driver appears twice", func() {
			gaps := scoring.TeammateGaps([]model.QualifyingRecord{
				rec("A", "T", 1, none, none, s(70)),
				rec("A", "T", 1, none, none, s(69)),
				rec("B", "T", 2, none, none, s(71)),
			})

			Convey("Then the pair should use each driver's first record", func() {
				So(gaps["A"].Is(-1), ShouldBeTrue)
				So(gaps["B"].Is(1), ShouldBeTrue)
			})
		})

		Convey("When the team is empty", func() {
			So(scoring.TeammateGaps(nil), ShouldBeEmpty)
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given the Monaco pairing", t, func() {
		a := rec("A", "T", 1, none, none, s(70))
		b := rec("B", "T", 2, none, none, s(71.5))
		team := []model.QualifyingRecord{a, b}
		pole := scoring.PoleTime(team)

		Convey("Then the pole sitter should score zero gap and a negative teammate gap", func() {
			r := scoring.Score(a, pole, team)
			So(r.Position.Is(1), ShouldBeTrue)
			So(r.GapToPole.Is(0), ShouldBeTrue)
			So(r.TeammateGap.Is(-1.5), ShouldBeTrue)
		})

		Convey("Then the second driver should trail by 1.5 on both measures", func() {
			r := scoring.Score(b, pole, team)
			So(r.GapToPole.Is(1.5), ShouldBeTrue)
			So(r.TeammateGap.Is(1.5), ShouldBeTrue)
		})
	})
}
