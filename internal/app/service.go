// Package service runs the qualifying timeline pipeline end to end:
// ingest, normalize, aggregate and write.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quali/internal/adapters/ingest"
	eventqueue "github.com/okian/quali/internal/adapters/mq/queue"
	workerpool "github.com/okian/quali/internal/adapters/mq/worker"
	"github.com/okian/quali/internal/adapters/output"
	"github.com/okian/quali/internal/adapters/repository"
	"github.com/okian/quali/internal/domain/dedupe"
	"github.com/okian/quali/internal/domain/laptime"
	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/internal/domain/timeline"
	"github.com/okian/quali/pkg/logger"
	"github.com/okian/quali/pkg/metrics"
)

const poolShutdownTimeout = 5 * time.Second

// Result summarizes a successful run.
type Result struct {
	RunID      string
	Files      int
	Skipped    int
	Records    int
	Duplicates int
	Seasons    int
	Paths      output.Paths
	Duration   time.Duration
}

// Service turns a directory of qualifying extracts into the timeline and
// race-order documents.
type Service struct {
	inputDir      string
	outputDir     string
	format        string
	extensions    []string
	workerCount   int
	queueSize     int
	timelineName  string
	raceOrderName string

	logger logger.Logger
}

// New constructs a Service. Options override the defaults.
func New(opts ...Option) *Service {
	s := &Service{
		inputDir:      "data/results_data",
		outputDir:     "data",
		format:        output.FormatJSON,
		workerCount:   runtime.NumCPU(),
		queueSize:     1024,
		timelineName:  output.DefaultTimelineName,
		raceOrderName: output.DefaultRaceOrderName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Run executes one batch. Nothing is written unless every stage succeeds.
func (s *Service) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := s.logger.With(logger.String("run_id", res.RunID))
	start := time.Now()

	log.Info(ctx, "pipeline started",
		logger.String("input_dir", s.inputDir),
		logger.String("output_dir", s.outputDir),
		logger.Int("workers", s.workerCount),
	)

	err := s.run(ctx, log, &res)
	res.Duration = time.Since(start)
	metrics.RecordRunOutcome(err == nil, time.Now())
	if err != nil {
		metrics.RecordErrorByComponent("pipeline", errorType(err))
		log.Error(ctx, "pipeline failed", logger.Error(err), logger.Duration("elapsed", res.Duration))
		return res, err
	}

	log.Info(ctx, "pipeline finished",
		logger.Int("seasons", res.Seasons),
		logger.String("timeline", res.Paths.Timeline),
		logger.String("race_order", res.Paths.RaceOrder),
		logger.Duration("elapsed", res.Duration),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, res *Result) error {
	var table *ingest.Table
	err := stage("ingest", func() error {
		reader := ingest.NewReader(
			ingest.WithExtensions(s.extensions),
			ingest.WithLogger(log.Named("ingest")),
		)
		var err error
		if table, err = reader.ReadDir(ctx, s.inputDir); err != nil {
			return err
		}
		return table.Validate()
	})
	if err != nil {
		return err
	}
	res.Files, res.Skipped = len(table.Files), len(table.Skipped)

	var records []model.QualifyingRecord
	_ = stage("normalize", func() error {
		records = s.normalize(ctx, log, table)
		return nil
	})
	res.Records = len(records)

	var (
		ix      *timeline.Index
		seasons []model.DriverSeason
	)
	err = stage("aggregate", func() error {
		ix = timeline.BuildIndex(records)
		var err error
		seasons, err = s.aggregate(ctx, log, ix)
		return err
	})
	if err != nil {
		return err
	}
	res.Seasons = len(seasons)

	return stage("write", func() error {
		w := output.NewWriter(s.outputDir,
			output.WithFormat(s.format),
			output.WithTimelineName(s.timelineName),
			output.WithRaceOrderName(s.raceOrderName),
			output.WithLogger(log.Named("output")),
		)
		paths, err := w.Write(ctx, seasons, ix.RaceOrder())
		res.Paths = paths
		return err
	})
}

// normalize converts rows to records, drops repeated (year, event, driver)
// triples and parses the session times.
func (s *Service) normalize(ctx context.Context, log logger.Logger, table *ingest.Table) []model.QualifyingRecord {
	records := table.Records(ctx, log.Named("ingest"))

	d := dedupe.NewInMemoryDeduper()
	kept, dropped := dedupe.Unique(ctx, d, records)
	for i := range dropped {
		metrics.RecordDuplicate()
		log.Debug(ctx, "dropping duplicate record",
			logger.Int("year", dropped[i].Year),
			logger.String("event", dropped[i].EventName),
			logger.String("driver", dropped[i].BroadcastName),
		)
	}
	if len(dropped) > 0 {
		log.Warn(ctx, "duplicate records dropped",
			logger.Int("count", len(dropped)),
			logger.Int("unique", int(d.Size())),
		)
	}

	return laptime.Normalize(kept)
}

// aggregate fans the driver-seasons of ix out over the worker pool and
// returns them in index order.
func (s *Service) aggregate(ctx context.Context, log logger.Logger, ix *timeline.Index) ([]model.DriverSeason, error) {
	var jobs []eventqueue.Job
	for _, season := range ix.Seasons() {
		for _, d := range season.Drivers() {
			jobs = append(jobs, eventqueue.Job{Seq: len(jobs), Key: model.SeasonKey{Year: season.Year, Driver: d}})
		}
	}

	store := repository.NewMemStore(repository.WithSizeHint(len(jobs)))
	var q eventqueue.Queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := workerpool.NewPool(s.workerCount, q, seasonAggregator(ix), store,
		workerpool.WithPoolLogger(log.Named("aggregate")))
	pool.Start(actx)
	log.Debug(ctx, "fanning out seasons", logger.Int("jobs", len(jobs)), logger.Int("workers", pool.Size()))

	for _, j := range jobs {
		if err := q.Enqueue(actx, j); err != nil {
			cancel()
			stopPool(ctx, log, pool)
			return nil, fmt.Errorf("enqueue %d/%s: %w", j.Key.Year, j.Key.Driver, err)
		}
	}
	if err := q.Close(); err != nil {
		cancel()
		stopPool(ctx, log, pool)
		return nil, err
	}
	if err := pool.Wait(actx); err != nil {
		cancel()
		stopPool(ctx, log, pool)
		return nil, err
	}

	if n := store.Count(ctx); n != len(jobs) {
		return nil, fmt.Errorf("%w: %d of %d seasons", ErrIncomplete, n, len(jobs))
	}

	seasons := store.List(ctx)
	for i := range seasons {
		metrics.RecordDriverSeason(len(seasons[i].Teams))
	}
	log.Info(ctx, "aggregated seasons",
		logger.Int("years", len(ix.Seasons())),
		logger.Int("seasons", len(seasons)),
	)
	return seasons, nil
}

// stopPool closes the queue and waits for every worker to return. ctx may
// already be cancelled, so the wait gets its own deadline.
func stopPool(ctx context.Context, log logger.Logger, pool *workerpool.Pool) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), poolShutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(sctx); err != nil {
		log.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}
}

func seasonAggregator(ix *timeline.Index) workerpool.AggregatorFunc {
	return func(_ context.Context, key model.SeasonKey) (model.DriverSeason, error) {
		season, ok := ix.Season(key.Year)
		if !ok {
			return model.DriverSeason{}, fmt.Errorf("%w: %d", ErrUnknownSeason, key.Year)
		}
		return timeline.Aggregate(season, key.Driver), nil
	}
}

func stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveStage(name, time.Since(start))
	return err
}
