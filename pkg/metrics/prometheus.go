// Package metrics provides Prometheus metrics for the matchd service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matchd service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ranking metrics
	rankRequests    prometheus.Counter
	pairsScored     prometheus.Counter
	scoringLatency  prometheus.Histogram
	rankLatency     prometheus.Histogram
	explainRequests prometheus.Counter

	// Match query cache metrics
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Tenant isolation metrics
	tenantRejections prometheus.Counter

	// Weight configuration metrics
	weightUpdates         prometheus.Counter
	weightUpdatesRejected prometheus.Counter
	weightVersion         prometheus.Gauge

	// Entity store metrics
	storeEntities *prometheus.GaugeVec

	// Worker pool metrics
	workerCount prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
	systemGCPause    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchd",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat metric registration
	auto := promauto.With(m.registry)

	m.rankRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_requests_total",
		Help:      "Total number of ranking requests served",
	})

	m.pairsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_scored_total",
		Help:      "Total number of entity pairs scored",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_scoring_latency_milliseconds",
		Help:      "Histogram of single-pair scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_latency_milliseconds",
		Help:      "Histogram of full ranking-pass latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.explainRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explain_requests_total",
		Help:      "Total number of single-pair explain requests",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_cache_hits_total",
		Help:      "Match query cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_cache_misses_total",
		Help:      "Match query cache misses",
	})

	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_cache_evictions_total",
		Help:      "Match query cache LRU evictions",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_cache_entries",
		Help:      "Current number of match query cache entries",
	})

	m.tenantRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tenant_rejections_total",
		Help:      "Pairs rejected by the tenant guard (isolation boundary)",
	})

	m.weightUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weight_updates_total",
		Help:      "Accepted weight configuration updates",
	})

	m.weightUpdatesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weight_updates_rejected_total",
		Help:      "Weight configuration updates rejected by validation",
	})

	m.weightVersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weight_config_version",
		Help:      "Version counter of the installed weight configuration",
	})

	m.storeEntities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_entities",
		Help:      "Entities held by the in-memory store, by kind",
	}, []string{"kind"})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_workers",
		Help:      "Number of scoring workers in the pool",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Heap bytes currently allocated",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current goroutine count",
	})

	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the registry backing the global manager, for promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

// RecordRankRequest counts one ranking request.
func RecordRankRequest() { globalManager.rankRequests.Inc() }

// RecordPairScored counts one scored pair.
func RecordPairScored() { globalManager.pairsScored.Inc() }

// RecordScoringLatency records single-pair scoring latency in milliseconds.
func RecordScoringLatency(ms float64) { globalManager.scoringLatency.Observe(ms) }

// RecordRankLatency records full ranking-pass latency in milliseconds.
func RecordRankLatency(ms float64) { globalManager.rankLatency.Observe(ms) }

// RecordExplainRequest counts one explain request.
func RecordExplainRequest() { globalManager.explainRequests.Inc() }

// RecordCacheHit counts one match cache hit.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss counts one match cache miss.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// RecordCacheEviction counts one match cache eviction.
func RecordCacheEviction() { globalManager.cacheEvictions.Inc() }

// UpdateCacheSize sets the current match cache entry count.
func UpdateCacheSize(n int) { globalManager.cacheSize.Set(float64(n)) }

// RecordTenantRejection counts one tenant-guard rejection.
func RecordTenantRejection() { globalManager.tenantRejections.Inc() }

// RecordWeightUpdate counts one accepted weight update.
func RecordWeightUpdate() { globalManager.weightUpdates.Inc() }

// RecordWeightUpdateRejected counts one rejected weight update.
func RecordWeightUpdateRejected() { globalManager.weightUpdatesRejected.Inc() }

// UpdateWeightVersion sets the installed weight configuration version.
func UpdateWeightVersion(v uint64) { globalManager.weightVersion.Set(float64(v)) }

// UpdateStoreEntities sets the store size for one entity kind.
func UpdateStoreEntities(kind string, n int) {
	globalManager.storeEntities.WithLabelValues(kind).Set(float64(n))
}

// UpdateWorkerCount sets the number of scoring workers.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the current heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemory.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutines.Set(float64(n)) }

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) { globalManager.systemGCPause.Observe(ms) }
