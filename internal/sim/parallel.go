package sim

import (
	"context"
	"sync"
)

// BatchItem is one independent run: its own system and initial state.
type BatchItem struct {
	Dyn System
	X0  State
}

// RunBatch executes the items concurrently on a shared grid, one goroutine
// per run. Each run gets a fresh integrator from newIntegrator so no
// scratch buffers are shared. Results are returned in item order; the first
// run error is returned after all goroutines finish.
func RunBatch(ctx context.Context, items []BatchItem, newIntegrator func() Integrator, grid Grid) ([]*Result, error) {
	results := make([]*Result, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, it BatchItem) {
			defer wg.Done()
			s := New(it.Dyn, newIntegrator())
			results[idx], errs[idx] = s.Run(ctx, it.X0, grid)
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
