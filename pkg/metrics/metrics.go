package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_cache_hits_total",
			Help: "Total number of Redis cache hits",
		},
		[]string{"cache"},
	)
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_cache_misses_total",
			Help: "Total number of Redis cache misses",
		},
		[]string{"cache"},
	)
	MongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)
	MongoErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_errors_total",
			Help: "Total number of MongoDB operation errors",
		},
		[]string{"operation", "collection"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of Redis operation errors",
		},
		[]string{"operation"},
	)
	GeocodingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoding_upstream_requests_total",
			Help: "Upstream geocoding calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	GeocodingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocoding_upstream_duration_seconds",
			Help:    "Upstream geocoding call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	AutocompleteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browse_autocomplete_calls_total",
			Help: "Autocomplete calls by result: dispatched, coalesced or short",
		},
		[]string{"result"},
	)
	StaleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browse_stale_responses_total",
			Help: "Responses discarded because a newer request was issued",
		},
		[]string{"kind"},
	)
	MarkersRendered = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "map_markers_rendered",
			Help:    "Markers placed per map synchronization",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
	BrowseSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "browse_sessions_active",
			Help: "Number of live browse sessions",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(CacheHitsTotal)
		prometheus.MustRegister(CacheMissesTotal)
		prometheus.MustRegister(MongoOperationDuration)
		prometheus.MustRegister(MongoErrorsTotal)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(GeocodingRequestsTotal)
		prometheus.MustRegister(GeocodingRequestDuration)
		prometheus.MustRegister(AutocompleteCallsTotal)
		prometheus.MustRegister(StaleResponsesTotal)
		prometheus.MustRegister(MarkersRendered)
		prometheus.MustRegister(BrowseSessionsActive)
	})
}
