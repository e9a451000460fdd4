package sim

import (
	"context"
	"fmt"
)

// Simulator drives one system over a fixed grid with an explicit integrator.
// Instances are not safe for concurrent use; run independent simulations
// with independent Simulators (see RunBatch).
type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over grid and returns the full trajectory.
// The run is deterministic: identical inputs produce identical output.
//
// A non-finite state after any step aborts the run with a *StepError naming
// the failing grid index; nothing is clamped back into range. Cancellation
// is checked between steps only.
func (s *Simulator) Run(ctx context.Context, x0 State, grid Grid) (*Result, error) {
	if err := validateGrid(grid); err != nil {
		return nil, err
	}
	if v, ok := s.dyn.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("sim: state dimension %d, system wants %d", len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, &StepError{Step: 0, Time: grid.Start, Err: ErrNonFiniteState}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	times := grid.Times()
	states := make([]State, grid.Points)
	states[0] = x0.Clone()
	s.emit(states[0], times[0])

	for i := 1; i < grid.Points; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dt := times[i] - times[i-1]
		next := s.integrator.Step(s.dyn, states[i-1], times[i-1], dt)
		if !next.IsValid() {
			return nil, &StepError{Step: i, Time: times[i], Err: ErrNonFiniteState}
		}
		states[i] = next
		s.emit(next, times[i])
	}

	result := &Result{
		Times:   times,
		States:  states,
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) emit(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, o := range s.observers {
		o.OnStep(x, t)
	}
}

func validateGrid(g Grid) error {
	if g.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGrid, g.Points)
	}
	if g.End <= g.Start {
		return fmt.Errorf("%w: end %f must exceed start %f", ErrInvalidGrid, g.End, g.Start)
	}
	return nil
}
