package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/quali/internal/adapters/ingest"
	service "github.com/okian/quali/internal/app"
	"github.com/okian/quali/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be created", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service built from config", t, func() {
		cfg := config.New()
		cfg.InputDir = filepath.Join(t.TempDir(), "nowhere")
		svc := service.New(service.WithConfig(cfg), service.WithWorkerCount(2))

		Convey("When it runs", func() {
			_, err := svc.Run(context.Background())

			Convey("Then it reads the configured input directory", func() {
				So(errors.Is(err, ingest.ErrInputDir), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "nowhere")
			})
		})
	})
}

func TestService_RunFailures(t *testing.T) {
	Convey("Given an input and an output directory", t, func() {
		ctx := context.Background()
		in := t.TempDir()
		out := filepath.Join(t.TempDir(), "out")
		svc := service.New(service.WithInputDir(in), service.WithOutputDir(out))

		Convey("When the input directory holds nothing readable", func() {
			writeInput(t, in, "readme.md", "# nothing\n")
			res, err := svc.Run(ctx)

			Convey("Then the run fails with ErrEmptyInput and writes nothing", func() {
				So(errors.Is(err, ingest.ErrEmptyInput), ShouldBeTrue)
				So(res.RunID, ShouldNotBeEmpty)
				_, statErr := os.Stat(out)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When required columns are absent", func() {
			writeInput(t, in, "2023.csv", "DriverNumber,BroadcastName,TeamName,Position,Q1,Q2,Year,EventName\n"+
				"1,A,T,1,1:30.0,1:29.0,2023,Monaco\n")
			_, err := svc.Run(ctx)

			Convey("Then the run fails with a schema error naming them", func() {
				var se *ingest.SchemaError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Missing, ShouldResemble, []string{"Q3", "WetSession"})
				_, statErr := os.Stat(out)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			writeInput(t, in, "2023.csv", header+"\n"+row("1", "A", "T", "1", "0 days 00:01:10", "2023", "Monaco"))
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Run(cctx)

			Convey("Then the run fails and writes nothing", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				_, statErr := os.Stat(filepath.Join(out, "career_timeline_data.json"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}
