// Package metrics registers the proxy's prometheus collectors, following the
// label and naming conventions of the teacher's pack-mate zengxiaobai-tavern
// (metrics/request_info.go, server/server.go's promhttp wiring).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts accepted client connections by outcome.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpcacheproxy",
		Name:      "requests_total",
		Help:      "Total client connections handled, by outcome.",
	}, []string{"outcome"})

	// CacheLookupsTotal counts cache find() calls by hit/miss.
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpcacheproxy",
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by result.",
	}, []string{"result"})

	// CacheEvictionsTotal counts entries evicted to satisfy invariant I1.
	CacheEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcacheproxy",
		Name:      "cache_evictions_total",
		Help:      "Entries evicted from the response cache.",
	})

	// CacheBytes is the current total footprint of the cache.
	CacheBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcacheproxy",
		Name:      "cache_bytes",
		Help:      "Current total size of cached response bytes.",
	})

	// CacheEntries is the current number of resident cache entries.
	CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcacheproxy",
		Name:      "cache_entries",
		Help:      "Current number of resident cache entries.",
	})

	// UpstreamLatencySeconds times the upstream round trip (connect through
	// end of response relay), by whether the response was cached afterward.
	UpstreamLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "httpcacheproxy",
		Name:      "upstream_latency_seconds",
		Help:      "Time spent talking to the origin server.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"cached"})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		CacheLookupsTotal,
		CacheEvictionsTotal,
		CacheBytes,
		CacheEntries,
		UpstreamLatencySeconds,
	)
}

// Handler returns the /metrics HTTP handler for the loopback metrics listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
