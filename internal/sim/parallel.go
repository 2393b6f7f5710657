package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/esim/internal/kinetic"
)

// Factory builds a fresh body set for one ensemble member.
type Factory func(seed int64) ([]*kinetic.Body, error)

// Ensemble runs independent simulations of the same box, one per seed, each
// on its own goroutine and its own Simulator.
type Ensemble struct {
	box       kinetic.Bounds
	factory   Factory
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(box kinetic.Bounds, factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{box: box, factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a constructor for per-run metrics. Metrics hold state, so
// every run gets its own set.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run", ErrInvalidConfig)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			bodies, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			s, err := New(e.box, bodies, cfgCopy)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
