package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// ErrNoRestarts is returned when fewer than one restart is requested
var ErrNoRestarts = errors.New("at least one restart is required")

// RestartOptions configures a best-of-n detection
type RestartOptions struct {
	Restarts int // independent runs; seeds are Detection.Seed, Detection.Seed+1, ...
	Workers  int // pool size; non-positive selects runtime.NumCPU()

	// Detection is applied to every run. Detection.Rand is ignored so that
	// each run owns its generator; Recorder, Logger and OnLevel are shared
	// between concurrent runs and must be safe for concurrent use.
	Detection algorithms.DetectionOptions
}

// RestartRun summarizes one seeded run
type RestartRun struct {
	Seed        int64
	Quality     float64
	Communities int
	Err         error
}

// BestOfRestarts runs detection once per seed on a worker pool and keeps
// the result with the lowest quality, breaking ties by the lowest seed.
// The graph is only read. Runs not yet started when ctx is cancelled are
// skipped and ctx.Err() is returned.
func BestOfRestarts[N comparable](ctx context.Context, g *algorithms.Graph[N], opts RestartOptions) (*algorithms.CommunityDetectionResult[N], []RestartRun, error) {
	if opts.Restarts < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrNoRestarts, opts.Restarts)
	}
	logger := logging.OrNop(opts.Detection.Logger)

	workers := min(validation.DefaultOrInt(opts.Workers, runtime.NumCPU()), opts.Restarts)
	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, nil, err
	}

	results := make([]*algorithms.CommunityDetectionResult[N], opts.Restarts)
	runs := make([]RestartRun, opts.Restarts)

	var wg sync.WaitGroup
	for i := 0; i < opts.Restarts; i++ {
		seed := opts.Detection.Seed + int64(i)
		runs[i].Seed = seed

		wg.Add(1)
		submitted := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				runs[i].Err = err
				return
			}

			detection := opts.Detection
			detection.Seed = seed
			detection.Rand = nil

			result, err := algorithms.DetectCommunities(g, detection)
			if err != nil {
				runs[i].Err = err
				return
			}
			results[i] = result
			runs[i].Quality = result.Quality
			runs[i].Communities = len(result.Communities)
		})
		if !submitted {
			wg.Done()
			runs[i].Err = errors.New("worker pool closed")
		}
	}
	wg.Wait()
	pool.Close()

	if pool.Panics() > 0 {
		return nil, runs, fmt.Errorf("%d restart(s) panicked", pool.Panics())
	}
	if err := ctx.Err(); err != nil {
		return nil, runs, err
	}

	best := -1
	for i, run := range runs {
		if run.Err != nil {
			return nil, runs, fmt.Errorf("restart with seed %d: %w", run.Seed, run.Err)
		}
		// Seeds increase with i, so strict comparison keeps the lowest seed on ties
		if best < 0 || results[i].Quality < results[best].Quality {
			best = i
		}
	}

	logger.Info("restarts complete",
		logging.Int("restarts", opts.Restarts),
		logging.Int("workers", workers),
		logging.Seed(runs[best].Seed),
		logging.Quality(runs[best].Quality),
	)
	return results[best], runs, nil
}
