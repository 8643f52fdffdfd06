package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal tracks backend requests per operation and outcome
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"operation", "outcome"},
	)

	// APIErrorsTotal tracks classified request failures
	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_errors_total",
			Help: "Total number of classified API errors",
		},
		[]string{"operation", "kind"},
	)

	// APIRetriesTotal tracks scheduled retries per operation
	APIRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_retries_total",
			Help: "Total number of scheduled request retries",
		},
		[]string{"operation"},
	)

	// APILatency tracks request latency per operation
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_latency_seconds",
			Help:    "Backend API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheHitsTotal tracks cache hits per accessor
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"accessor"},
	)

	// CacheMissesTotal tracks cache misses per accessor
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"accessor"},
	)

	// MessagesArchived tracks messages written to the local archive
	MessagesArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_messages_archived_total",
			Help: "Total number of messages written to the archive",
		},
		[]string{"product"},
	)
)
