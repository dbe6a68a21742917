// Package metrics provides Prometheus metrics for the podium ranking service.
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

// Submission outcomes used as label values.
const (
	OutcomeImproved = "improved"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

// Manager manages all Prometheus metrics for the podium service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ranking metrics
	submissionsReceived prometheus.Counter
	indexUpdates        *prometheus.CounterVec
	neighborQueries     *prometheus.CounterVec
	neighborResultSize  prometheus.Histogram
	indexUpdateLatency  prometheus.Histogram
	indexQueryLatency   prometheus.Histogram

	// Lifecycle metrics
	competitionsCreated prometheus.Counter
	competitionsRetired prometheus.Counter
	competitionsTotal   prometheus.Gauge
	competitionsOpen    prometheus.Gauge
	usersTracked        prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Error metrics
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "podium",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.submissionsReceived = m.counter("submissions_received_total", "Total number of score submissions received")
	m.indexUpdates = m.counterVec("index_updates_total", "Rank index update attempts by outcome", "outcome")
	m.neighborQueries = m.counterVec("neighbor_queries_total", "Neighbor queries by direction", "direction")
	m.neighborResultSize = m.histogram("neighbor_result_size", "Number of users returned per neighbor query",
		[]float64{0, 1, 2, 5, 10, 25, 50, 100})
	m.indexUpdateLatency = m.histogram("index_update_latency_milliseconds", "Submission fan-out latency in milliseconds", m.histogramBuckets)
	m.indexQueryLatency = m.histogram("index_query_latency_milliseconds", "Rank index read latency in milliseconds", m.histogramBuckets)

	m.competitionsCreated = m.counter("competitions_created_total", "Total number of competitions created")
	m.competitionsRetired = m.counter("competitions_retired_total", "Total number of competitions retired")
	m.competitionsTotal = m.gauge("competitions", "Competitions currently held in memory")
	m.competitionsOpen = m.gauge("competitions_open", "Competitions whose window contains the current time")
	m.usersTracked = m.gauge("users_tracked", "Scored users summed over all competitions")

	m.httpRequests = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.rateLimited = m.counter("http_rate_limited_total", "Requests rejected by the submission rate limiter")

	m.queueSize = m.gauge("queue_size", "Current number of queued submissions")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of submissions enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of submissions dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")

	m.workerCount = m.gauge("worker_count", "Number of submission workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordSubmissionReceived increments the submissions counter.
func RecordSubmissionReceived() {
	if !globalManager.enabled {
		return
	}
	globalManager.submissionsReceived.Inc()
}

// RecordIndexUpdate counts one index update attempt with its outcome.
func RecordIndexUpdate(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.indexUpdates.WithLabelValues(outcome).Inc()
}

// RecordNeighborQuery counts a neighbor query and the size of its result.
func RecordNeighborQuery(direction string, resultSize int) {
	if !globalManager.enabled {
		return
	}
	globalManager.neighborQueries.WithLabelValues(direction).Inc()
	globalManager.neighborResultSize.Observe(float64(resultSize))
}

// RecordIndexUpdateLatency records submission fan-out latency.
func RecordIndexUpdateLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.indexUpdateLatency.Observe(latencyMs)
}

// RecordIndexQueryLatency records index read latency.
func RecordIndexQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.indexQueryLatency.Observe(latencyMs)
}

// RecordCompetitionCreated increments the created competitions counter.
func RecordCompetitionCreated() {
	if !globalManager.enabled {
		return
	}
	globalManager.competitionsCreated.Inc()
}

// RecordCompetitionRetired increments the retired competitions counter.
func RecordCompetitionRetired() {
	if !globalManager.enabled {
		return
	}
	globalManager.competitionsRetired.Inc()
}

// UpdateCompetitions sets the held and open competition gauges.
func UpdateCompetitions(total, open int) {
	if !globalManager.enabled {
		return
	}
	globalManager.competitionsTotal.Set(float64(total))
	globalManager.competitionsOpen.Set(float64(open))
}

// UpdateUsersTracked sets the scored users gauge.
func UpdateUsersTracked(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.usersTracked.Set(float64(count))
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

// RecordRateLimited increments the rate limited requests counter.
func RecordRateLimited() {
	if !globalManager.enabled {
		return
	}
	globalManager.rateLimited.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// SinceMs returns the time elapsed since start in fractional milliseconds.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// Init rebuilds the global manager on a fresh registry with opts. Call it
// once at startup before anything records a metric.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// Enabled reports whether the global manager records anything.
func Enabled() bool {
	return globalManager.enabled
}

// RefreshInterval is how often periodic gauge updaters should publish.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
