package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordLevel records one optimized dendrogram level
func (r *Registry) RecordLevel(passes, moves, communities int, accepted bool, duration time.Duration) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	r.LevelsTotal.WithLabelValues(outcome).Inc()
	r.LevelDuration.Observe(duration.Seconds())
	r.LevelPassesTotal.Add(float64(passes))
	r.LevelMovesTotal.Add(float64(moves))
	r.LevelCommunities.Observe(float64(communities))
}

// RecordRun records a finished detection run. Result gauges are only
// updated for successful runs.
func (r *Registry) RecordRun(status string, levels, communities int, quality float64, duration time.Duration) {
	r.DetectionRunsTotal.WithLabelValues(status).Inc()
	r.DetectionRunDuration.Observe(duration.Seconds())
	if status != "success" {
		return
	}
	r.DetectionLevels.Observe(float64(levels))
	r.DetectionCommunities.Set(float64(communities))
	r.DetectionQuality.Set(quality)
}

// RecordRestarts records a best-of-n restart selection
func (r *Registry) RecordRestarts(restarts int, bestSeed int64) {
	r.DetectionRestartsTotal.Add(float64(restarts))
	r.DetectionBestSeed.Set(float64(bestSeed))
}

// RecordLoad records a graph document load
func (r *Registry) RecordLoad(format, status string, nodes, edges int, bytes int64, duration time.Duration) {
	r.InputLoadsTotal.WithLabelValues(format, status).Inc()
	r.InputLoadDuration.Observe(duration.Seconds())
	if status != "success" {
		return
	}
	r.InputNodes.Set(float64(nodes))
	r.InputEdges.Set(float64(edges))
	r.InputBytes.Set(float64(bytes))
}

// UpdateSystemMetrics refreshes uptime and runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile refreshes system metrics and writes the registry in the
// Prometheus text format, for pickup by a node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.GetPrometheusRegistry())
}
