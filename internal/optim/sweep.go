package optim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"bioflow/internal/config"
	"bioflow/internal/experiment"
)

// Sweep evaluates every combination of candidate values for a set of named
// parameters against one run metric. Runs are independent, so combinations
// execute concurrently, each on its own config copy.
type Sweep struct {
	names  []string
	values [][]float64
}

func NewSweep(names []string, values [][]float64) (*Sweep, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("optim: %d names but %d value lists", len(names), len(values))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("optim: empty sweep")
	}
	for i, vs := range values {
		if len(vs) == 0 {
			return nil, fmt.Errorf("optim: no candidate values for %s", names[i])
		}
	}
	return &Sweep{names: names, values: values}, nil
}

// Candidate is one evaluated combination. Score is NaN if the run failed.
type Candidate struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// Run evaluates all combinations, minimizing the named metric. The base
// config is never mutated. Returns the best candidate plus the full table
// in generation order.
func (s *Sweep) Run(ctx context.Context, base *config.Config, metric string) (Candidate, []Candidate, error) {
	combos := s.expand()

	candidates := make([]Candidate, len(combos))
	registry := experiment.NewRegistry()

	var wg sync.WaitGroup
	for i, combo := range combos {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			candidates[idx] = evaluate(ctx, registry, base, params, metric)
		}(i, combo)
	}
	wg.Wait()

	best := Candidate{Score: math.Inf(1)}
	found := false
	for _, c := range candidates {
		if c.Err == nil && c.Score < best.Score {
			best = c
			found = true
		}
	}
	if !found {
		return Candidate{}, candidates, fmt.Errorf("optim: no combination completed")
	}
	return best, candidates, nil
}

func evaluate(ctx context.Context, registry *experiment.Registry, base *config.Config, params map[string]float64, metric string) Candidate {
	cand := Candidate{Params: params, Score: math.NaN()}

	cfg := base.Clone()
	for name, value := range params {
		if err := cfg.SetParam(name, value); err != nil {
			cand.Err = err
			return cand
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		cand.Err = err
		return cand
	}

	result, err := exp.Run(ctx)
	if err != nil {
		cand.Err = err
		return cand
	}

	score, ok := result.Metrics[metric]
	if !ok {
		cand.Err = fmt.Errorf("optim: unknown metric %s", metric)
		return cand
	}
	cand.Score = score
	return cand
}

// expand builds the cartesian product of all candidate values.
func (s *Sweep) expand() []map[string]float64 {
	combos := []map[string]float64{{}}
	for i, name := range s.names {
		next := make([]map[string]float64, 0, len(combos)*len(s.values[i]))
		for _, combo := range combos {
			for _, v := range s.values[i] {
				m := make(map[string]float64, len(combo)+1)
				for k, val := range combo {
					m[k] = val
				}
				m[name] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}
