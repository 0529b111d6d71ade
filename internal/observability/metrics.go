// Package observability defines the Prometheus collectors exported at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts generation requests by terminal outcome.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genserve_requests_total",
		Help: "Generation requests by outcome (cache_hit, generated, backend_unavailable, resource_exhausted, generation_failed).",
	}, []string{"outcome"})

	// CacheHits counts cache gateway lookups served from the store.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genserve_cache_hits_total",
		Help: "Cache lookups that returned a stored result.",
	})

	// CacheMisses counts lookups that found no usable entry, including
	// store failures degraded to misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genserve_cache_misses_total",
		Help: "Cache lookups that returned no usable result.",
	})

	// CacheWriteFailures counts best-effort writes the store rejected.
	CacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genserve_cache_write_failures_total",
		Help: "Cache writes that failed and were discarded.",
	})

	// CacheWritesDropped counts write-behind tasks dropped because the
	// queue was full.
	CacheWritesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genserve_cache_writes_dropped_total",
		Help: "Write-behind cache writes dropped due to a full queue.",
	})

	// GenerationSeconds observes wall-clock engine invocation time.
	GenerationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "genserve_generation_seconds",
		Help:    "Engine generation latency in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)
