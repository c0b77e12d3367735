package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Detection Metrics
	DetectionRunsTotal     *prometheus.CounterVec
	DetectionRunDuration   prometheus.Histogram
	DetectionLevels        prometheus.Histogram
	DetectionCommunities   prometheus.Gauge
	DetectionQuality       prometheus.Gauge
	DetectionRestartsTotal prometheus.Counter
	DetectionBestSeed      prometheus.Gauge

	// Level Metrics
	LevelsTotal      *prometheus.CounterVec
	LevelDuration    prometheus.Histogram
	LevelPassesTotal prometheus.Counter
	LevelMovesTotal  prometheus.Counter
	LevelCommunities prometheus.Histogram

	// Input Metrics
	InputNodes        prometheus.Gauge
	InputEdges        prometheus.Gauge
	InputBytes        prometheus.Gauge
	InputLoadsTotal   *prometheus.CounterVec
	InputLoadDuration prometheus.Histogram

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initDetectionMetrics()
	r.initLevelMetrics()
	r.initInputMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
