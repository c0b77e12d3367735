package algorithms

import (
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Community represents a detected community
type Community[N comparable] struct {
	ID         int
	Nodes      []N
	Size       int
	Density    float64 // Internal edge weight over the number of member pairs
	Clustering float64 // Mean local clustering coefficient of the members
	Scale      float64 // Display size on a log scale between 1 and 10
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult[N comparable] struct {
	RunID         string
	Seed          int64
	Communities   []*Community[N]
	NodeCommunity map[N]int // Node ID -> Community ID, ids contiguous from 0
	Quality       float64   // Score of the coarsest level, lower is better
	Modularity    float64   // Newman modularity of the final partition
	Levels        int       // Number of dendrogram levels
	Components    int       // Connected components of the input graph
	Degenerate    bool      // Input had no edge weight; every node is a singleton
}

// LevelReport is passed to DetectionOptions.OnLevel after each level
type LevelReport struct {
	Level       int
	Nodes       int // Nodes of the graph optimized at this level
	Communities int
	Quality     float64
	Stats       LevelStats
	Accepted    bool // False for the final level that failed to improve
	Duration    time.Duration
}

// Recorder receives run and level measurements; metrics.Registry implements it
type Recorder interface {
	RecordLevel(passes, moves, communities int, accepted bool, duration time.Duration)
	RecordRun(status string, levels, communities int, quality float64, duration time.Duration)
}

// DetectionOptions configures a full detection run
type DetectionOptions struct {
	Threshold float64    // Minimum level-over-level improvement; 0 selects DefaultThreshold
	Seed      int64      // Seeds the visit-order generator when Rand is nil
	Rand      *rand.Rand // Explicit generator, takes precedence over Seed
	Logger    logging.Logger
	Recorder  Recorder
	OnLevel   func(LevelReport)
}

// DefaultDetectionOptions returns default detection configuration
func DefaultDetectionOptions() DetectionOptions {
	return DetectionOptions{
		Threshold: DefaultThreshold,
		Seed:      DefaultSeed,
	}
}

func (o DetectionOptions) optimizer(logger logging.Logger) (OptimizerOptions, error) {
	rng := o.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(o.Seed))
	}
	return OptimizerOptions{
		Threshold: o.Threshold,
		Rand:      rng,
		Logger:    logger,
	}.withDefaults()
}
