package stint_test

import (
	"testing"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/internal/domain/stint"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFinalize(t *testing.T) {
	Convey("Given a stint's events", t, func() {
		events := []model.EventSummary{
			model.NewEventSummary("R1", model.Some(2), model.Some(0.4), model.Some(-0.2)),
			model.NewEventSummary("R2", model.Some(4), model.Some(0.6), model.Missing),
			model.AbsentSummary("R3"),
			model.NewEventSummary("R4", model.Some(1), model.Some(0), model.Some(0.1)),
		}

		Convey("When finalizing", func() {
			st := stint.Finalize("T", events)

			Convey("Then averages should skip missing values", func() {
				So(st.Team, ShouldEqual, "T")
				So(st.Events, ShouldHaveLength, 4)
				So(st.AvgQualifyingPosition.Value, ShouldAlmostEqual, 7.0/3, 1e-12)
				So(st.AvgGapToPole.Value, ShouldAlmostEqual, 1.0/3, 1e-12)
				So(st.AvgTeammateGap.Value, ShouldAlmostEqual, -0.05, 1e-12)
			})

			Convey("Then completeness should count teammate data over all events", func() {
				So(st.DataCompleteness, ShouldEqual, 0.5)
			})
		})

		Convey("When no event has any value", func() {
			st := stint.Finalize("T", []model.EventSummary{model.AbsentSummary("R1")})

			Convey("Then every average should be missing", func() {
				So(st.AvgQualifyingPosition.IsMissing(), ShouldBeTrue)
				So(st.AvgGapToPole.IsMissing(), ShouldBeTrue)
				So(st.AvgTeammateGap.IsMissing(), ShouldBeTrue)
				So(st.DataCompleteness, ShouldEqual, 0)
			})
		})

		Convey("When the stint has zero events", func() {
			st := stint.Finalize("T", nil)

			Convey("Then completeness should be 0 and not NaN", func() {
				So(st.DataCompleteness, ShouldEqual, 0)
				So(st.Events, ShouldNotBeNil)
				So(st.Events, ShouldBeEmpty)
			})
		})
	})
}

func TestBuilder(t *testing.T) {
	Convey("Given a builder opened with team X", t, func() {
		b := stint.NewBuilder("X")

		Convey("When switching to the same team", func() {
			So(b.Switch("X"), ShouldBeFalse)
			So(b.Build(), ShouldHaveLength, 1)
		})

		Convey("When the driver moves to Y after three events", func() {
			for _, r := range []string{"R1", "R2", "R3"} {
				b.Append(model.AbsentSummary(r))
			}
			So(b.Switch("Y"), ShouldBeTrue)
			b.Append(model.AbsentSummary("R4"))
			b.Append(model.AbsentSummary("R5"))
			stints := b.Build()

			Convey("Then events should split across two stints in order", func() {
				So(stints, ShouldHaveLength, 2)
				So(stints[0].Team, ShouldEqual, "X")
				So(stints[0].Events, ShouldHaveLength, 3)
				So(stints[1].Team, ShouldEqual, "Y")
				So(stints[1].Events, ShouldHaveLength, 2)
				So(stints[1].Events[0].Round, ShouldEqual, "R4")
				So(b.Team(), ShouldEqual, "Y")
			})
		})

		Convey("When the driver returns to a former team", func() {
			b.Append(model.AbsentSummary("R1"))
			b.Switch("Y")
			b.Append(model.AbsentSummary("R2"))
			b.Switch("X")
			b.Append(model.AbsentSummary("R3"))

			Convey("Then a third stint should be opened rather than reusing the first", func() {
				stints := b.Build()
				So(stints, ShouldHaveLength, 3)
				So(stints[2].Team, ShouldEqual, "X")
				So(stints[0].Events, ShouldHaveLength, 1)
			})
		})
	})
}
