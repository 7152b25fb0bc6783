// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tubeproxy"

var (
	// CacheOperationsTotal tracks cache operations (get, set).
	// Labels:
	//   - operation: get, set, load
	//   - status: hit, miss, success, error
	//   - cache: query, video, playlist
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache"},
	)

	// CacheEntries reports the number of entries held by each cache.
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Number of entries in each cache",
		},
		[]string{"cache"},
	)

	// UpstreamRequestsTotal tracks calls to the video platform.
	// Labels:
	//   - endpoint: search, videos, playlistItems
	//   - status: success, error
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream API requests",
		},
		[]string{"endpoint", "status"},
	)

	// UpstreamRequestDuration observes upstream latency per endpoint.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// SearchRequestsTotal tracks searches by query cache outcome.
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"query_cache"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet  = "get"
	CacheOpSet  = "set"
	CacheOpLoad = "load"
)

// Upstream endpoint constants.
const (
	EndpointSearch        = "search"
	EndpointVideos        = "videos"
	EndpointPlaylistItems = "playlistItems"
)

// Upstream request status constants.
const (
	UpstreamStatusSuccess = "success"
	UpstreamStatusError   = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// RecordSingleflight increments the singleflight counter for one Do call.
func RecordSingleflight(shared bool) {
	if shared {
		SingleflightRequestsTotal.WithLabelValues(SingleflightShared).Inc()
		return
	}
	SingleflightRequestsTotal.WithLabelValues(SingleflightInitiated).Inc()
}
