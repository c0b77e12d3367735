package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInputMetrics() {
	r.InputNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_input_nodes",
			Help: "Number of nodes in the last loaded graph",
		},
	)

	r.InputEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_input_edges",
			Help: "Number of distinct edges in the last loaded graph",
		},
	)

	r.InputBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_input_bytes",
			Help: "Size of the last loaded graph document in bytes, after decompression",
		},
	)

	r.InputLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_input_loads_total",
			Help: "Total number of graph documents loaded",
		},
		[]string{"format", "status"},
	)

	r.InputLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_input_load_duration_seconds",
			Help:    "Graph document load and parse duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
}
