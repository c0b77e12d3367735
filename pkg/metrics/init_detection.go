package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.DetectionRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_detection_runs_total",
			Help: "Total number of community detection runs",
		},
		[]string{"status"},
	)

	r.DetectionRunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_detection_run_duration_seconds",
			Help:    "Community detection run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
	)

	r.DetectionLevels = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_detection_levels",
			Help:    "Number of dendrogram levels kept per run",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	r.DetectionCommunities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_detection_communities",
			Help: "Number of communities found by the last successful run",
		},
	)

	r.DetectionQuality = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_detection_quality",
			Help: "Quality score of the last successful run, lower is better",
		},
	)

	r.DetectionRestartsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "communities_detection_restarts_total",
			Help: "Total number of seeded restarts evaluated",
		},
	)

	r.DetectionBestSeed = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_detection_best_seed",
			Help: "Seed of the restart that produced the kept partition",
		},
	)
}

func (r *Registry) initLevelMetrics() {
	r.LevelsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_levels_total",
			Help: "Total number of dendrogram levels optimized",
		},
		[]string{"outcome"},
	)

	r.LevelDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_level_duration_seconds",
			Help:    "Duration of one level optimization in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.LevelPassesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "communities_level_passes_total",
			Help: "Total number of optimizer passes over all levels",
		},
	)

	r.LevelMovesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "communities_level_moves_total",
			Help: "Total number of node moves over all levels",
		},
	)

	r.LevelCommunities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_level_communities",
			Help:    "Communities remaining after each level",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
}
