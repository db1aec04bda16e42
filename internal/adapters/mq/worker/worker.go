// Package worker runs driver-season aggregation jobs concurrently.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/quali/internal/adapters/mq/queue"
	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/pkg/logger"
	"github.com/okian/quali/pkg/metrics"
)

// Job is what workers read off the queue.
type Job = queue.Job

// Aggregator builds the season a job asks for.
type Aggregator interface {
	Aggregate(ctx context.Context, key model.SeasonKey) (model.DriverSeason, error)
}

// AggregatorFunc adapts a function to Aggregator.
type AggregatorFunc func(ctx context.Context, key model.SeasonKey) (model.DriverSeason, error)

// Aggregate calls f.
func (f AggregatorFunc) Aggregate(ctx context.Context, key model.SeasonKey) (model.DriverSeason, error) {
	return f(ctx, key)
}

// Sink receives finished seasons.
type Sink interface {
	Put(ctx context.Context, seq int, season model.DriverSeason) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until its queue is drained.
type Worker interface {
	// Run starts the worker loop until the queue closes or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	aggregator Aggregator
	sink       Sink
	name       string
	onError    func(error)

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, aggregator Aggregator, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		aggregator: aggregator,
		sink:       sink,
		name:       "worker",
		onError:    func(error) {},
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.onError(err)
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, j Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	season, err := w.aggregator.Aggregate(ctx, j.Key)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "aggregate_error")
		w.logger.Error(ctx, "aggregation failed",
			logger.Int("year", j.Key.Year),
			logger.String("driver", j.Key.Driver),
			logger.Error(err),
		)
		return fmt.Errorf("aggregate %d/%s: %w", j.Key.Year, j.Key.Driver, err)
	}

	if err := w.sink.Put(ctx, j.Seq, season); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store %d/%s: %w", j.Key.Year, j.Key.Driver, err)
	}

	w.logger.Debug(ctx, "aggregated season",
		logger.Int("year", season.Year),
		logger.String("driver", season.Driver),
		logger.Int("stints", len(season.Teams)),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	mu       sync.Mutex
	firstErr error

	logger logger.Logger
}

// NewPool creates a worker pool. A count below one uses one worker per CPU.
func NewPool(workerCount int, q Queue, aggregator Aggregator, sink Sink, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(q, aggregator, sink,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
			withErrorHandler(p.recordError),
		)
	}
	p.logger = p.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

func (p *Pool) recordError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Debug(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained. It returns the first job error, or the context error
// if ctx ended first.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

// Shutdown closes the queue and stops every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return err
		}
	}
	return nil
}
