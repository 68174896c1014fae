// Package metrics provides Prometheus metrics for the sectorscore service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Recomputation
	recomputeRuns       *prometheus.CounterVec
	recomputeDuration   prometheus.Histogram
	competitorsResults  *prometheus.CounterVec
	competitorsTotal    prometheus.Gauge
	duplicateEntries    *prometheus.CounterVec
	lastRecomputeUnix   prometheus.Gauge
	sectorTotalFish     *prometheus.GaugeVec
	migrationRecords    *prometheus.CounterVec
	migrationRuns       *prometheus.CounterVec
	recomputeInProgress prometheus.Gauge

	// Storage
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Trigger queue and workers
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueRejected  *prometheus.CounterVec
	triggersServed prometheus.Counter
	workerCount    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sectorscore",
		subsystem:        "scoring",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recomputeRuns = m.counterVec("recompute_runs_total",
		"Recomputation runs by outcome (success, partial, failed)", "outcome")
	m.recomputeDuration = m.histogram("recompute_duration_milliseconds",
		"Wall time of a full recomputation run in milliseconds")
	m.competitorsResults = m.counterVec("competitors_results_total",
		"Per-competitor recomputation outcomes (updated, skipped, failed)", "result")
	m.competitorsTotal = m.gauge("competitors_total",
		"Competitors seen by the last recomputation")
	m.duplicateEntries = m.counterVec("duplicate_entries_total",
		"Duplicate countable records detected during aggregation", "kind")
	m.lastRecomputeUnix = m.gauge("last_recompute_unix",
		"Unix timestamp of the last completed recomputation")
	m.sectorTotalFish = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sector_fish_total",
		Help:      "Countable fish per sector at the last recomputation",
	}, []string{"sector"})
	m.migrationRecords = m.counterVec("migration_records_total",
		"Big-catch migration outcomes per record (migrated, skipped, failed)", "result")
	m.migrationRuns = m.counterVec("migration_runs_total",
		"Big-catch migration runs by outcome", "outcome")
	m.recomputeInProgress = m.gauge("recompute_in_progress",
		"Recomputation runs currently executing")

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Storage collaborator call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"op", "collection"})
	m.storeErrors = m.counterVec("store_errors_total",
		"Storage collaborator call failures", "op", "collection")

	m.queueSize = m.gauge("trigger_queue_size", "Pending recompute triggers")
	m.queueCapacity = m.gauge("trigger_queue_capacity", "Maximum pending recompute triggers")
	m.queueRejected = m.counterVec("trigger_queue_rejected_total",
		"Recompute triggers rejected by the queue", "reason")
	m.triggersServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "triggers_served_total",
		Help:      "Recompute triggers consumed by workers",
	})
	m.workerCount = m.gauge("worker_count", "Recompute workers running")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRecomputeRun records the outcome and duration of one recomputation run.
func RecordRecomputeRun(outcome string, durationMs float64) {
	globalManager.recomputeRuns.WithLabelValues(outcome).Inc()
	globalManager.recomputeDuration.Observe(durationMs)
	globalManager.lastRecomputeUnix.Set(float64(time.Now().Unix()))
}

// RecordCompetitorResult counts one competitor outcome.
func RecordCompetitorResult(result string) {
	globalManager.competitorsResults.WithLabelValues(result).Inc()
}

// UpdateCompetitorsTotal sets the number of competitors seen by the last run.
func UpdateCompetitorsTotal(n int) {
	globalManager.competitorsTotal.Set(float64(n))
}

// RecordDuplicateEntry counts a duplicate countable record of the given kind (hourly, big_catch).
func RecordDuplicateEntry(kind string) {
	globalManager.duplicateEntries.WithLabelValues(kind).Inc()
}

// UpdateSectorFishTotal sets the countable fish total of a sector.
func UpdateSectorFishTotal(sector string, total int) {
	globalManager.sectorTotalFish.WithLabelValues(sector).Set(float64(total))
}

// RecordMigrationRecord counts one migration record outcome.
func RecordMigrationRecord(result string) {
	globalManager.migrationRecords.WithLabelValues(result).Inc()
}

// RecordMigrationRun counts one migration run by outcome.
func RecordMigrationRun(outcome string) {
	globalManager.migrationRuns.WithLabelValues(outcome).Inc()
}

// RecomputeStarted increments the in-progress gauge; call the returned func when done.
func RecomputeStarted() func() {
	globalManager.recomputeInProgress.Inc()
	return globalManager.recomputeInProgress.Dec
}

// RecordStoreLatency records a storage call latency.
func RecordStoreLatency(op, collection string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op, collection).Observe(latencyMs)
}

// RecordStoreError counts a failed storage call.
func RecordStoreError(op, collection string) {
	globalManager.storeErrors.WithLabelValues(op, collection).Inc()
}

// UpdateQueueSize sets the current trigger queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the trigger queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a trigger the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordTriggerServed counts a trigger consumed by a worker.
func RecordTriggerServed() {
	globalManager.triggersServed.Inc()
}

// UpdateWorkerCount sets the number of running recompute workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// Configure replaces the process-wide manager and its registry with fresh ones
// built from opts. Call it once at startup, before metrics are recorded.
func Configure(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	customRegistry = registry
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
