package graph

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by the engine.
type Metrics struct {
	Traversals prometheus.Counter
	Failures   prometheus.Counter
	Steps      prometheus.Counter
	Nodes      prometheus.Counter
	Duration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Traversals: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gradgraph",
			Name:      "backward_traversals_total",
			Help:      "Total backward traversals started.",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gradgraph",
			Name:      "backward_failures_total",
			Help:      "Backward traversals aborted by a structural error.",
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gradgraph",
			Name:      "backward_steps_total",
			Help:      "Backward operation steps executed.",
		}),
		Nodes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gradgraph",
			Name:      "graph_nodes_total",
			Help:      "Forward graph nodes recorded.",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gradgraph",
			Name:      "backward_duration_seconds",
			Help:      "Wall time of a backward traversal.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
}

var defaultMetrics = sync.OnceValue(func() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
})

// DefaultMetrics returns metrics registered with the default Prometheus registry.
func DefaultMetrics() *Metrics {
	return defaultMetrics()
}
