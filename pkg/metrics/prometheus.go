package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	modelsScored    prometheus.Gauge
	lastCIS         prometheus.Gauge
	lastRunUnix     prometheus.Gauge
	missingValues   *prometheus.GaugeVec
	feedsLoaded     prometheus.Gauge
	feedRowsDropped *prometheus.CounterVec
	snapshotWrites  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Ranking store
	storeRecords      prometheus.Gauge
	storePublishTotal prometheus.Counter
	storeQueryLatency prometheus.Histogram

	// Errors
	errorRateByComponent *prometheus.CounterVec
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
		namespace:        "aigi",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(m.counterOpts("runs_total", "Total number of scoring runs by outcome"), []string{"status"})
	m.runDuration = auto.NewHistogram(m.histogramOpts("run_duration_seconds", "Wall time of a scoring run", m.histogramBuckets))
	m.modelsScored = auto.NewGauge(m.gaugeOpts("models_scored", "Number of models in the last published snapshot"))
	m.lastCIS = auto.NewGauge(m.gaugeOpts("cis", "Composite Intelligence Score of the last published snapshot"))
	m.lastRunUnix = auto.NewGauge(m.gaugeOpts("last_run_timestamp_seconds", "Unix time of the last successful run"))
	m.missingValues = auto.NewGaugeVec(m.gaugeOpts("missing_values", "Models without a value in the last run, by column"), []string{"column"})
	m.feedsLoaded = auto.NewGauge(m.gaugeOpts("feeds_loaded", "Number of feeds present in the last run"))
	m.feedRowsDropped = auto.NewCounterVec(m.counterOpts("feed_rows_dropped_total", "Feed rows not merged, by feed and reason"), []string{"feed", "reason"})
	m.snapshotWrites = auto.NewCounterVec(m.counterOpts("snapshot_writes_total", "Snapshot persistence attempts by outcome"), []string{"status"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}), []string{"endpoint", "method", "status_code"})

	m.storeRecords = auto.NewGauge(m.gaugeOpts("store_records", "Number of models in the ranking view"))
	m.storePublishTotal = auto.NewCounter(m.counterOpts("store_publish_total", "Number of ranking views published"))
	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts("store_query_latency_milliseconds", "Ranking view query latency in milliseconds",
		[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50}))

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"})
}

// RecordRun records the outcome and duration of a scoring run.
func (m *Manager) RecordRun(status string, d time.Duration) error {
	if !m.enabled {
		return nil
	}
	if status != StatusSuccess && status != StatusFailure {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
	if status == StatusSuccess {
		m.lastRunUnix.Set(float64(time.Now().Unix()))
	}
	return nil
}

// RecordRun records a run on the global manager.
func RecordRun(status string, d time.Duration) error {
	return globalManager.RecordRun(status, d)
}

// UpdateSnapshot sets the gauges describing the last published snapshot.
func UpdateSnapshot(cis float64, models int) {
	if !globalManager.enabled {
		return
	}
	globalManager.lastCIS.Set(cis)
	globalManager.modelsScored.Set(float64(models))
}

// UpdateMissingValues sets the missing-value gauge for one column.
func UpdateMissingValues(column string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.missingValues.WithLabelValues(column).Set(float64(count))
}

// UpdateFeedsLoaded sets the number of feeds present in the last run.
func UpdateFeedsLoaded(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.feedsLoaded.Set(float64(count))
}

// RecordFeedRowsDropped adds n dropped rows for a feed.
func RecordFeedRowsDropped(feed, reason string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.feedRowsDropped.WithLabelValues(feed, reason).Add(float64(n))
}

// RecordSnapshotWrite records a snapshot persistence attempt.
func RecordSnapshotWrite(status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotWrites.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateStoreRecords sets the number of models in the ranking view.
func UpdateStoreRecords(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeRecords.Set(float64(count))
}

// IncrementStorePublish counts a published ranking view.
func IncrementStorePublish() {
	if !globalManager.enabled {
		return
	}
	globalManager.storePublishTotal.Inc()
}

// RecordStoreQueryLatency records ranking view query latency.
func RecordStoreQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
