package sim

import (
	"context"
	"testing"
)

type scaledDecay struct{ rate float64 }

func (d *scaledDecay) Derive(x State, t float64) State { return State{-d.rate * x[0]} }
func (d *scaledDecay) StateDim() int                   { return 1 }

func TestRunBatch(t *testing.T) {
	items := []BatchItem{
		{Dyn: &scaledDecay{rate: 1}, X0: State{1.0}},
		{Dyn: &scaledDecay{rate: 2}, X0: State{1.0}},
		{Dyn: &scaledDecay{rate: 3}, X0: State{1.0}},
	}
	grid := Grid{Start: 0, End: 1, Points: 101}

	results, err := RunBatch(context.Background(), items, func() Integrator { return &euler{} }, grid)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Faster decay must end lower; results keep item order.
	for i := 1; i < len(results); i++ {
		if results[i].Last()[0] >= results[i-1].Last()[0] {
			t.Errorf("result order broken: rate %d ended at %g, rate %d at %g",
				i+1, results[i].Last()[0], i, results[i-1].Last()[0])
		}
	}
}

func TestRunBatchMatchesSequential(t *testing.T) {
	dyn := &scaledDecay{rate: 1.5}
	grid := Grid{Start: 0, End: 2, Points: 201}

	seq, err := New(dyn, &euler{}).Run(context.Background(), State{1.0}, grid)
	if err != nil {
		t.Fatal(err)
	}

	batch, err := RunBatch(context.Background(),
		[]BatchItem{{Dyn: &scaledDecay{rate: 1.5}, X0: State{1.0}}},
		func() Integrator { return &euler{} }, grid)
	if err != nil {
		t.Fatal(err)
	}

	for i := range seq.States {
		if seq.States[i][0] != batch[0].States[i][0] {
			t.Fatalf("parallel run diverged from sequential at step %d", i)
		}
	}
}

func TestRunBatchPropagatesError(t *testing.T) {
	items := []BatchItem{
		{Dyn: &scaledDecay{rate: 1}, X0: State{1.0}},
		{Dyn: &blowup{after: 2}, X0: State{1.0}},
	}

	_, err := RunBatch(context.Background(), items, func() Integrator { return &euler{} }, Grid{Start: 0, End: 1, Points: 11})
	if err == nil {
		t.Fatal("expected error from failing run")
	}
}
