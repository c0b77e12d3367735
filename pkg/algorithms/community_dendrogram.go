package algorithms

import (
	"time"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Dendrogram holds one partition per level, finest first. The base
// partition maps the caller's nodes to level-1 nodes; Levels()[k] maps the
// nodes of level k+1 to those of level k+2.
type Dendrogram[N comparable] struct {
	base      *Partition[N]
	levels    []*Partition[int]
	qualities []float64
	stats     []LevelStats
}

// Depth returns the number of recorded partitions
func (d *Dendrogram[N]) Depth() int {
	return 1 + len(d.levels)
}

// Base returns the partition of the original nodes
func (d *Dendrogram[N]) Base() *Partition[N] {
	return d.base
}

// Levels returns the partitions above the base, finest first
func (d *Dendrogram[N]) Levels() []*Partition[int] {
	out := make([]*Partition[int], len(d.levels))
	copy(out, d.levels)
	return out
}

// Qualities returns the quality recorded for each partition
func (d *Dendrogram[N]) Qualities() []float64 {
	out := make([]float64, len(d.qualities))
	copy(out, d.qualities)
	return out
}

// Stats returns the optimizer statistics of each recorded level
func (d *Dendrogram[N]) Stats() []LevelStats {
	out := make([]LevelStats, len(d.stats))
	copy(out, d.stats)
	return out
}

// Quality returns the quality of the coarsest recorded partition; it is 0
// for a degenerate run.
func (d *Dendrogram[N]) Quality() float64 {
	if len(d.qualities) == 0 {
		return 0
	}
	return d.qualities[len(d.qualities)-1]
}

// Flatten maps every original node to its community at the coarsest level
func (d *Dendrogram[N]) Flatten() (*Partition[N], error) {
	return d.PartitionAtLevel(d.Depth() - 1)
}

// PartitionAtLevel composes the partitions up to level. A level past the
// end is clamped to the coarsest one.
func (d *Dendrogram[N]) PartitionAtLevel(level int) (*Partition[N], error) {
	if level < 0 {
		return nil, NewError("PartitionAtLevel").Level(level).Context("negative level").Cause(ErrInvalidInput).Err()
	}
	if level > len(d.levels) {
		level = len(d.levels)
	}

	out := &Partition[N]{
		nodes:     make([]N, len(d.base.nodes)),
		community: make(map[N]int, len(d.base.nodes)),
		count:     d.base.count,
	}
	copy(out.nodes, d.base.nodes)
	for n, c := range d.base.community {
		out.community[n] = c
	}

	for i := 0; i < level; i++ {
		next := d.levels[i]
		for _, n := range out.nodes {
			c, ok := next.community[out.community[n]]
			if !ok {
				return nil, NewError("PartitionAtLevel").Level(i + 1).Node(out.community[n]).Cause(ErrMissingKey).Err()
			}
			out.community[n] = c
		}
		out.count = next.count
	}
	return out, nil
}

// BuildDendrogram runs the optimizer on g, coarsens g by the communities it
// found, and repeats on the coarsened graph until a level improves quality
// by less than the threshold. The level that failed to improve is dropped.
//
// A graph without edge weight yields a single identity level.
func BuildDendrogram[N comparable](g *Graph[N], opts DetectionOptions) (*Dendrogram[N], error) {
	logger := logging.OrNop(opts.Logger)
	optimizer, err := opts.optimizer(logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, err := NewStatus(g)
	if err != nil {
		return nil, err
	}
	stats, err := OptimizeLevel(status, optimizer)
	if err != nil {
		return nil, atLevel(err, 0)
	}

	d := &Dendrogram[N]{base: status.Renumber()}
	if stats.Degenerate {
		logger.Warn("graph has no edge weight, keeping singleton communities", logging.Nodes(g.NodeCount()))
		opts.report(LevelReport{
			Nodes:       g.NodeCount(),
			Communities: d.base.CommunityCount(),
			Stats:       *stats,
			Accepted:    true,
			Duration:    time.Since(start),
		})
		return d, nil
	}

	prevQuality, err := status.Quality()
	if err != nil {
		return nil, atLevel(err, 0)
	}
	d.qualities = append(d.qualities, prevQuality)
	d.stats = append(d.stats, *stats)
	opts.report(LevelReport{
		Nodes:       g.NodeCount(),
		Communities: d.base.CommunityCount(),
		Quality:     prevQuality,
		Stats:       *stats,
		Accepted:    true,
		Duration:    time.Since(start),
	})
	logger.Debug("level complete", logging.Depth(0), logging.Communities(d.base.CommunityCount()), logging.Quality(prevQuality))

	current, err := Induce(d.base, g)
	if err != nil {
		return nil, atLevel(err, 0)
	}

	for level := 1; ; level++ {
		start = time.Now()
		status, err := NewStatus(current)
		if err != nil {
			return nil, atLevel(err, level)
		}
		stats, err := OptimizeLevel(status, optimizer)
		if err != nil {
			return nil, atLevel(err, level)
		}
		quality, err := status.Quality()
		if err != nil {
			return nil, atLevel(err, level)
		}

		partition := status.Renumber()
		accepted := prevQuality-quality >= optimizer.Threshold
		opts.report(LevelReport{
			Level:       level,
			Nodes:       current.NodeCount(),
			Communities: partition.CommunityCount(),
			Quality:     quality,
			Stats:       *stats,
			Accepted:    accepted,
			Duration:    time.Since(start),
		})
		if !accepted {
			break
		}

		d.levels = append(d.levels, partition)
		d.qualities = append(d.qualities, quality)
		d.stats = append(d.stats, *stats)
		prevQuality = quality
		logger.Debug("level complete", logging.Depth(level), logging.Communities(partition.CommunityCount()), logging.Quality(quality))

		current, err = Induce(partition, current)
		if err != nil {
			return nil, atLevel(err, level)
		}
	}
	return d, nil
}

func (o DetectionOptions) report(r LevelReport) {
	if o.Recorder != nil {
		o.Recorder.RecordLevel(r.Stats.Passes, r.Stats.Moves, r.Communities, r.Accepted, r.Duration)
	}
	if o.OnLevel != nil {
		o.OnLevel(r)
	}
}
