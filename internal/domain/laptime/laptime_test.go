package laptime_test

import (
	"testing"

	"github.com/okian/quali/internal/domain/laptime"
	"github.com/okian/quali/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given qualifying time text", t, func() {
		Convey("When it carries a day prefix", func() {
			v := laptime.Parse("0 days 00:01:23.456000")

			Convey("Then it should convert to fractional seconds", func() {
				So(v.Valid, ShouldBeTrue)
				So(v.Value, ShouldAlmostEqual, 83.456, 1e-9)
			})
		})

		Convey("When it is a bare clock", func() {
			So(laptime.Parse("00:01:10.000").Value, ShouldAlmostEqual, 70.0, 1e-9)
			So(laptime.Parse("1:11.5").Value, ShouldAlmostEqual, 71.5, 1e-9)
		})

		Convey("When it is already numeric seconds", func() {
			Convey("Then the value should be returned unchanged", func() {
				So(laptime.Parse("83.456").Is(83.456), ShouldBeTrue)
				So(laptime.Parse("70").Is(70), ShouldBeTrue)
			})
		})

		Convey("When it spans more than a day", func() {
			So(laptime.Parse("1 days 00:00:01").Value, ShouldAlmostEqual, 86401.0, 1e-9)
		})

		Convey("When it is a negative day offset", func() {
			So(laptime.Parse("-1 days +23:59:58.5").Value, ShouldAlmostEqual, -1.5, 1e-9)
		})

		Convey("When the day count does not fit a duration", func() {
			Convey("Then it should be missing rather than wrap around", func() {
				for _, s := range []string{"200000 days 00:00:01", "-200000 days 00:00:01", "106751 days 23:59:59"} {
					So(laptime.Parse(s).IsMissing(), ShouldBeTrue)
				}
				So(laptime.Parse("106751 days 00:00:00").Value, ShouldAlmostEqual, 106751.0*86400, 1)
			})
		})

		Convey("When it is blank or a missing marker", func() {
			Convey("Then it should be missing", func() {
				for _, s := range []string{"", "  ", "NaT", "nan", "None"} {
					So(laptime.Parse(s).IsMissing(), ShouldBeTrue)
				}
			})
		})

		Convey("When it is garbage", func() {
			Convey("Then it should be missing rather than fail", func() {
				for _, s := range []string{"fast", "1:2:3:4", "x days 00:01:00", "00:aa:10", "0 days :01"} {
					So(laptime.Parse(s).IsMissing(), ShouldBeTrue)
				}
			})
		})

		Convey("When the same text is parsed repeatedly", func() {
			Convey("Then the result should be identical", func() {
				a := laptime.Parse("0 days 00:01:29.708000")
				b := laptime.Parse("0 days 00:01:29.708000")
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw qualifying records", t, func() {
		records := []model.QualifyingRecord{
			{BroadcastName: "A", Q1: "0 days 00:01:12.000000", Q2: "0 days 00:01:11.000000", Q3: "0 days 00:01:10.000000"},
			{BroadcastName: "B", Q1: "0 days 00:01:13.250000", Q2: "", Q3: "NaT"},
		}

		Convey("When normalizing", func() {
			out := laptime.Normalize(records)

			Convey("Then seconds fields should be derived per segment", func() {
				So(out[0].Q1Seconds.Value, ShouldAlmostEqual, 72.0, 1e-9)
				So(out[0].Q2Seconds.Value, ShouldAlmostEqual, 71.0, 1e-9)
				So(out[0].Q3Seconds.Value, ShouldAlmostEqual, 70.0, 1e-9)
				So(out[1].Q1Seconds.Value, ShouldAlmostEqual, 73.25, 1e-9)
				So(out[1].Q2Seconds.IsMissing(), ShouldBeTrue)
				So(out[1].Q3Seconds.IsMissing(), ShouldBeTrue)
			})

			Convey("Then the input should be left untouched", func() {
				So(records[0].Q1Seconds.IsMissing(), ShouldBeTrue)
			})

			Convey("And normalizing again should yield the same values", func() {
				So(laptime.Normalize(out), ShouldResemble, out)
			})
		})

		Convey("When the time columns already hold numeric seconds", func() {
			numeric := []model.QualifyingRecord{{BroadcastName: "A", Q1: "72", Q2: "71.25", Q3: ""}}
			once := laptime.Normalize(numeric)
			twice := laptime.Normalize(once)

			Convey("Then values should be unchanged across runs", func() {
				So(once[0].Q1Seconds.Is(72), ShouldBeTrue)
				So(once[0].Q2Seconds.Is(71.25), ShouldBeTrue)
				So(twice, ShouldResemble, once)
			})
		})
	})
}
