package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Builder creates an independent simulation for one seed.
type Builder[V dynamo.Vector[V]] func(seed int64) (*Simulation[V], error)

// Ensemble runs the same scenario under consecutive seeds, one goroutine per
// run. Runs share nothing but the builder.
type Ensemble[V dynamo.Vector[V]] struct {
	build     Builder[V]
	numRuns   int
	seedStart int64
}

func NewEnsemble[V dynamo.Vector[V]](build Builder[V], numRuns int, seedStart int64) *Ensemble[V] {
	return &Ensemble[V]{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble[V]) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			s, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			results[idx], errs[idx] = s.RunFor(ctx, cfg)
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
