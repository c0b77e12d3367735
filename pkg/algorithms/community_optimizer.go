package algorithms

import (
	"math/rand"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

const (
	// DefaultThreshold is the minimum quality improvement that keeps a
	// level (or another optimizer pass) going.
	DefaultThreshold = 1e-7
	// DefaultSeed seeds the visit-order generator when none is supplied
	DefaultSeed int64 = 1
)

// OptimizerState is the state of the local-moving optimizer
type OptimizerState int

const (
	StateScanning OptimizerState = iota
	StateConverged
)

func (s OptimizerState) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// OptimizerOptions configures one local-moving optimization
type OptimizerOptions struct {
	Threshold float64        // Stop when a pass improves quality by less; 0 selects DefaultThreshold
	Rand      *rand.Rand     // Visit-order generator; nil seeds one with DefaultSeed
	Logger    logging.Logger // Per-pass debug output; nil disables logging
}

// LevelStats describes one optimizer run
type LevelStats struct {
	Passes         int
	Moves          int
	InitialQuality float64
	FinalQuality   float64
	State          OptimizerState
	Degenerate     bool // graph had no edge weight; every node stayed a singleton
}

func (o OptimizerOptions) withDefaults() (OptimizerOptions, error) {
	if o.Threshold < 0 {
		return o, NewError("OptimizeLevel").Context("negative threshold %v", o.Threshold).Cause(ErrInvalidInput).Err()
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(DefaultSeed))
	}
	o.Logger = logging.OrNop(o.Logger)
	return o, nil
}

// OptimizeLevel greedily moves nodes between neighbouring communities until
// a full pass moves nothing or improves quality by less than the threshold.
//
// Each pass visits every node once in a freshly shuffled order. A node is
// detached from its community and probed against every community it has an
// edge into; the probe's Δ is measured against the quality with the node
// still in place. The most negative Δ wins, ties going to the first
// community encountered; when no Δ is negative the node goes back home.
func OptimizeLevel[N comparable](s *Status[N], opts OptimizerOptions) (*LevelStats, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	stats := &LevelStats{State: StateScanning}
	if s.totalWeight == 0 {
		stats.State = StateConverged
		stats.Degenerate = true
		return stats, nil
	}

	current, err := s.Quality()
	if err != nil {
		return nil, err
	}
	stats.InitialQuality = current
	stats.FinalQuality = current

	order := make([]int, len(s.assignment))
	for i := range order {
		order[i] = i
	}

	for stats.State == StateScanning {
		stats.Passes++
		opts.Rand.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		moved := 0
		for _, i := range order {
			changed, err := s.moveNode(i)
			if err != nil {
				return nil, err
			}
			if changed {
				moved++
			}
		}

		next, err := s.Quality()
		if err != nil {
			return nil, err
		}
		stats.Moves += moved
		stats.FinalQuality = next

		opts.Logger.Debug("optimizer pass",
			logging.Int("pass", stats.Passes),
			logging.Int("moves", moved),
			logging.Quality(next),
			logging.Communities(s.CommunityCount()),
		)

		if moved == 0 || current-next < opts.Threshold {
			stats.State = StateConverged
		}
		current = next
	}
	return stats, nil
}

// moveNode relocates node i to its best neighbouring community and reports
// whether it left its original one.
func (s *Status[N]) moveNode(i int) (bool, error) {
	home := s.assignment[i]
	nw := s.neighborCommunities(i)

	baseline, err := s.Quality()
	if err != nil {
		return false, err
	}

	s.remove(i, home, nw.get(home))

	best, bestDelta := home, 0.0
	for _, c := range nw.order {
		w := nw.get(c)
		s.insert(i, c, w)
		q, err := s.Quality()
		s.remove(i, c, w)
		if err != nil {
			s.insert(i, home, nw.get(home))
			return false, err
		}
		if delta := q - baseline; delta < bestDelta {
			best, bestDelta = c, delta
		}
	}

	s.insert(i, best, nw.get(best))
	return best != home, nil
}
