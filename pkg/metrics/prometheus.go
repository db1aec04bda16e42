// Package metrics provides Prometheus metrics for the qualifying timeline pipeline.
//
// The pipeline is a batch job, so nothing scrapes it; the registry is
// written out with WriteTextfile at the end of a run for the node-exporter
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	filesRead         prometheus.Counter
	filesSkipped      prometheus.Counter
	rowsIngested      prometheus.Counter
	rowsDropped       prometheus.Counter
	recordsDuplicate  prometheus.Counter
	timeParseFailures prometheus.Counter

	// Aggregation
	driverSeasons prometheus.Counter
	teamStints    prometheus.Counter
	teamChanges   prometheus.Counter
	stageDuration *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors and run outcome
	errorsByComponent *prometheus.CounterVec
	lastRunSuccess    prometheus.Gauge
	lastRunTimestamp  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quali",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.filesRead = m.counter("files_read_total", "Input files parsed successfully")
	m.filesSkipped = m.counter("files_skipped_total", "Input files skipped because they failed to parse")
	m.rowsIngested = m.counter("rows_ingested_total", "Rows in the unified table")
	m.rowsDropped = m.counter("rows_dropped_total", "Rows dropped because year, event or driver could not be resolved")
	m.recordsDuplicate = m.counter("records_duplicate_total", "Repeated (year, event, driver) results dropped")
	m.timeParseFailures = m.counter("time_parse_failures_total", "Non-empty Q1/Q2/Q3 values that were not durations")

	m.driverSeasons = m.counter("driver_seasons_total", "Driver seasons aggregated")
	m.teamStints = m.counter("team_stints_total", "Team stints produced")
	m.teamChanges = m.counter("team_changes_total", "Mid-season team changes detected")
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the aggregation queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the aggregation queue")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs that could not be enqueued")

	m.workerCount = m.gauge("worker_count", "Aggregation workers")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Time to aggregate one driver season",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
	})
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed in a worker")

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
	m.lastRunSuccess = m.gauge("last_run_success", "1 if the last run wrote its output, 0 otherwise")
	m.lastRunTimestamp = m.gauge("last_run_timestamp_seconds", "Unix time the last run finished")
}

// RecordFileRead counts a parsed input file.
func RecordFileRead() { globalManager.filesRead.Inc() }

// RecordFileSkipped counts an input file that failed to parse.
func RecordFileSkipped() { globalManager.filesSkipped.Inc() }

// RecordRowsIngested adds n rows to the ingested total.
func RecordRowsIngested(n int) { globalManager.rowsIngested.Add(float64(n)) }

// RecordRowDropped counts a row that could not be keyed.
func RecordRowDropped() { globalManager.rowsDropped.Inc() }

// RecordDuplicate counts a dropped duplicate result.
func RecordDuplicate() { globalManager.recordsDuplicate.Inc() }

// RecordTimeParseFailure counts an unparseable time value.
func RecordTimeParseFailure() { globalManager.timeParseFailures.Inc() }

// RecordDriverSeason counts an aggregated season with the given number of stints.
func RecordDriverSeason(stints int) {
	globalManager.driverSeasons.Inc()
	globalManager.teamStints.Add(float64(stints))
	if stints > 1 {
		globalManager.teamChanges.Add(float64(stints - 1))
	}
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, d time.Duration) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records job latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordRunOutcome records whether the run succeeded and when it finished.
func RecordRunOutcome(success bool, at time.Time) {
	v := 0.0
	if success {
		v = 1
	}
	globalManager.lastRunSuccess.Set(v)
	globalManager.lastRunTimestamp.Set(float64(at.Unix()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, customRegistry)
}
