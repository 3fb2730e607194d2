// Package metrics provides Prometheus metrics for the all-play standings service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Standings
	standingsComputed   *prometheus.CounterVec
	standingsLatency    prometheus.Histogram
	rostersRanked       prometheus.Gauge
	weeksSkipped        prometheus.Counter
	unevenParticipation prometheus.Counter
	rowsDropped         *prometheus.CounterVec

	// Cache
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheEvicted prometheus.Counter
	cacheEntries prometheus.Gauge

	// Upstream
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec

	// Fetch pool
	fetchInFlight prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "allplay",
		subsystem:        "standings",
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.standingsComputed = auto.NewCounterVec(
		m.counterOpts("computations_total", "Standings tables computed, by kind (season or week)"),
		[]string{"kind"},
	)
	m.standingsLatency = auto.NewHistogram(
		m.histogramOpts("computation_latency_milliseconds", "Time spent normalizing and folding weekly feeds", m.histogramBuckets),
	)
	m.rostersRanked = auto.NewGauge(
		m.gaugeOpts("rosters_ranked", "Rosters in the most recent standings table"),
	)
	m.weeksSkipped = auto.NewCounter(
		m.counterOpts("weeks_skipped_total", "Weeks skipped because the feed was empty, malformed or failed to fetch"),
	)
	m.unevenParticipation = auto.NewCounter(
		m.counterOpts("uneven_participation_total", "Standings tables where rosters played a different number of weeks"),
	)
	m.rowsDropped = auto.NewCounterVec(
		m.counterOpts("rows_dropped_total", "Weekly rows dropped by the normalizer, by reason"),
		[]string{"reason"},
	)

	m.cacheHits = auto.NewCounterVec(
		m.counterOpts("cache_hits_total", "Response cache hits by namespace"),
		[]string{"namespace"},
	)
	m.cacheMisses = auto.NewCounterVec(
		m.counterOpts("cache_misses_total", "Response cache misses by namespace"),
		[]string{"namespace"},
	)
	m.cacheEvicted = auto.NewCounter(
		m.counterOpts("cache_evictions_total", "Response cache entries expired and evicted"),
	)
	m.cacheEntries = auto.NewGauge(
		m.gaugeOpts("cache_entries", "Response cache entries currently held"),
	)

	m.upstreamRequests = auto.NewCounterVec(
		m.counterOpts("upstream_requests_total", "Requests sent to the league API by endpoint and status code"),
		[]string{"endpoint", "status_code"},
	)
	m.upstreamLatency = auto.NewHistogramVec(
		m.histogramOpts("upstream_latency_milliseconds", "League API request latency in milliseconds", m.histogramBuckets),
		[]string{"endpoint"},
	)
	m.upstreamErrors = auto.NewCounterVec(
		m.counterOpts("upstream_errors_total", "League API failures by endpoint and error type"),
		[]string{"endpoint", "error_type"},
	)

	m.fetchInFlight = auto.NewGauge(
		m.gaugeOpts("fetch_in_flight", "Weekly feed fetches currently running"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordStandingsComputed counts one computed table and its latency.
func RecordStandingsComputed(kind string, latencyMs float64, rosters int) {
	if !globalManager.enabled {
		return
	}
	globalManager.standingsComputed.WithLabelValues(kind).Inc()
	globalManager.standingsLatency.Observe(latencyMs)
	globalManager.rostersRanked.Set(float64(rosters))
}

// RecordWeekSkipped counts a week that contributed nothing to the standings.
func RecordWeekSkipped() {
	if !globalManager.enabled {
		return
	}
	globalManager.weeksSkipped.Inc()
}

// RecordUnevenParticipation counts a table whose games-back is approximate.
func RecordUnevenParticipation() {
	if !globalManager.enabled {
		return
	}
	globalManager.unevenParticipation.Inc()
}

// RecordRowsDropped counts rows the normalizer discarded.
func RecordRowsDropped(reason string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordCacheHit increments the cache hit counter for namespace.
func RecordCacheHit(namespace string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheHits.WithLabelValues(namespace).Inc()
}

// RecordCacheMiss increments the cache miss counter for namespace.
func RecordCacheMiss(namespace string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheMisses.WithLabelValues(namespace).Inc()
}

// RecordCacheEviction increments the eviction counter.
func RecordCacheEviction() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheEvicted.Inc()
}

// UpdateCacheEntries sets the number of live cache entries.
func UpdateCacheEntries(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheEntries.Set(float64(count))
}

// RecordUpstreamRequest records one league API call.
func RecordUpstreamRequest(endpoint, statusCode string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamRequests.WithLabelValues(endpoint, statusCode).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordUpstreamError records a failed league API call.
func RecordUpstreamError(endpoint, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamErrors.WithLabelValues(endpoint, errorType).Inc()
}

// AddFetchInFlight adjusts the in-flight fetch gauge by delta.
func AddFetchInFlight(delta int) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchInFlight.Add(float64(delta))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry served at /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
