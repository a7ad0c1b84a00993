// Package metrics registers the Prometheus instrumentation for the proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls to the eCFR API by endpoint and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecfrproxy_upstream_requests_total",
			Help: "Upstream eCFR API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// UpstreamDuration observes upstream call latency per endpoint.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecfrproxy_upstream_request_seconds",
			Help:    "Upstream eCFR API request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	// CacheRequests counts cache lookups by namespace and outcome (hit/miss).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecfrproxy_cache_requests_total",
			Help: "Cache lookups by namespace and outcome",
		},
		[]string{"namespace", "outcome"},
	)

	// WordCountDuration observes full word-count computations, fetch included.
	WordCountDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecfrproxy_wordcount_seconds",
			Help:    "Word count computation duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

// RecordUpstream records one upstream call.
func RecordUpstream(endpoint, outcome string, seconds float64) {
	UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordCache records one cache lookup outcome.
func RecordCache(namespace string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheRequests.WithLabelValues(namespace, outcome).Inc()
}
