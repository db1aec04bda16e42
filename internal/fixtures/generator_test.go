package fixtures_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/quali/internal/adapters/ingest"
	"github.com/okian/quali/internal/domain/laptime"
	"github.com/okian/quali/internal/domain/timeline"
	"github.com/okian/quali/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a fixture config", t, func() {
		ctx := context.Background()
		cfg := &fixtures.Config{
			Dir:      filepath.Join(t.TempDir(), "gen"),
			Years:    []int{2022, 2023},
			Events:   6,
			Teams:    3,
			Seed:     7,
			SwapRate: 1,
		}

		Convey("When generating", func() {
			stats, err := fixtures.Generate(ctx, cfg, nil)
			So(err, ShouldBeNil)

			Convey("Then one extract per year is written", func() {
				So(stats.Files, ShouldEqual, 2)
				So(stats.Rows, ShouldEqual, 2*6*6)
				So(stats.Swaps, ShouldEqual, 2)
			})

			Convey("Then the pipeline reads every row back", func() {
				table, err := ingest.NewReader().ReadDir(ctx, cfg.Dir)
				So(err, ShouldBeNil)
				So(table.Validate(), ShouldBeNil)
				records := laptime.Normalize(table.Records(ctx, nil))
				So(records, ShouldHaveLength, stats.Rows)
				So(records[0].Q1Seconds.IsMissing(), ShouldBeFalse)
			})

			Convey("Then swapped drivers get two stints", func() {
				table, _ := ingest.NewReader().ReadDir(ctx, cfg.Dir)
				ix := timeline.BuildIndex(laptime.Normalize(table.Records(ctx, nil)))
				s, ok := ix.Season(2023)
				So(ok, ShouldBeTrue)
				d01 := timeline.Aggregate(s, "D01 DRIVER")
				So(d01.Teams, ShouldHaveLength, 2)
				So(d01.Teams[0].Team, ShouldEqual, "Team 01")
				So(d01.Teams[1].Team, ShouldEqual, "Team 02")
				So(d01.EventCount(), ShouldEqual, 6)
			})

			Convey("Then the same seed gives the same files", func() {
				again := *cfg
				again.Dir = filepath.Join(t.TempDir(), "again")
				_, err := fixtures.Generate(ctx, &again, nil)
				So(err, ShouldBeNil)
				a, _ := os.ReadFile(filepath.Join(cfg.Dir, "2023.csv"))
				b, _ := os.ReadFile(filepath.Join(again.Dir, "2023.csv"))
				So(string(b), ShouldEqual, string(a))
			})
		})

		Convey("When TSV output is requested", func() {
			cfg.TSV = true
			_, err := fixtures.Generate(ctx, cfg, nil)
			So(err, ShouldBeNil)

			Convey("Then .tsv files are written", func() {
				_, err := os.Stat(filepath.Join(cfg.Dir, "2022.tsv"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When the config has no teams", func() {
			cfg.Teams = 0
			_, err := fixtures.Generate(ctx, cfg, nil)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, fixtures.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
