// Package metrics exposes Prometheus instrumentation for the allocation
// engine's background work.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecomputesTotal counts finished recomputations by outcome
	// (ok, error, dropped).
	RecomputesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stagtrip",
		Name:      "recomputes_total",
		Help:      "Cost allocation recomputations by outcome.",
	}, []string{"outcome"})

	// RecomputeDuration observes how long a single recomputation takes.
	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stagtrip",
		Name:      "recompute_duration_seconds",
		Help:      "Duration of a single cost allocation recomputation.",
		Buckets:   prometheus.DefBuckets,
	})

	// QueueDepth tracks how many recompute jobs are waiting in the
	// dispatcher's buffer.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stagtrip",
		Name:      "recompute_queue_depth",
		Help:      "Recompute jobs currently buffered in the dispatcher.",
	})
)
