package models

import (
	"context"
	"errors"
	"math"
	"testing"

	"bioflow/internal/integrators"
	"bioflow/internal/sim"
)

func TestBioreactorDimensions(t *testing.T) {
	r := NewBioreactor()
	if r.StateDim() != 3 {
		t.Errorf("expected state dim 3, got %d", r.StateDim())
	}
}

func TestBioreactorDerivative(t *testing.T) {
	r := NewBioreactor()
	r.B = 500
	r.Ki = 2
	r.Ks = 0.8333

	x := sim.State{0.002, 0.3, 0.2}
	dx := r.Derive(x, 0)

	// Hand-computed from the model equations.
	wantX := (0.1 + 1.4*0.3/(0.8333+0.3)) * (1 - 0.002) * 0.002
	wantS := -0.002*500 + 0.2*(1-0.3)
	wantKla := 2*(0.8-0.3) + 500/(1-0.8)*wantX

	if math.Abs(dx[sim.IdxBiomass]-wantX) > 1e-12 {
		t.Errorf("dXdt: got %g, want %g", dx[sim.IdxBiomass], wantX)
	}
	if math.Abs(dx[sim.IdxOxygen]-wantS) > 1e-12 {
		t.Errorf("dSdt: got %g, want %g", dx[sim.IdxOxygen], wantS)
	}
	if math.Abs(dx[sim.IdxKla]-wantKla) > 1e-12 {
		t.Errorf("dkladt: got %g, want %g", dx[sim.IdxKla], wantKla)
	}
}

func TestSubstrateFloor(t *testing.T) {
	r := NewBioreactor()

	dx := r.Derive(sim.State{0.5, -0.001, 5.0}, 0)

	if dx[sim.IdxOxygen] != 0 {
		t.Errorf("expected dSdt exactly 0 below the floor, got %g", dx[sim.IdxOxygen])
	}
	// Only the substrate term is clamped; growth and kla still move.
	if dx[sim.IdxBiomass] == 0 {
		t.Error("dXdt should not be clamped by the substrate floor")
	}
	if dx[sim.IdxKla] == 0 {
		t.Error("dkladt should not be clamped by the substrate floor")
	}
}

func TestNegativeKlaSuppressesIntegralOnly(t *testing.T) {
	r := NewBioreactor()
	r.B = 100
	r.Ki = 110

	x := sim.State{0.01, 0.5, -0.001}
	dx := r.Derive(x, 0)

	// The PI part is gone; what remains is exactly the feed-forward term.
	ff := r.B / (r.C - r.Do) * dx[sim.IdxBiomass]
	if math.Abs(dx[sim.IdxKla]-ff) > 1e-12 {
		t.Errorf("expected pure feed-forward %g, got %g", ff, dx[sim.IdxKla])
	}
}

func TestKlaCeiling(t *testing.T) {
	r := NewBioreactor()

	dx := r.Derive(sim.State{0.5, 0.5, KlaMax + 0.01}, 0)
	if dx[sim.IdxKla] != 0 {
		t.Errorf("expected dkladt exactly 0 above the ceiling, got %g", dx[sim.IdxKla])
	}

	// At exactly the ceiling the derivative still applies.
	dx = r.Derive(sim.State{0.5, 0.5, KlaMax}, 0)
	if dx[sim.IdxKla] == 0 {
		t.Error("dkladt should not be clamped at exactly KlaMax")
	}
}

func TestFeedForwardSingularityGuard(t *testing.T) {
	for _, do := range []float64{1.0, 1.2} {
		r := NewBioreactor()
		r.Do = do
		r.Ki = 0 // isolate the feed-forward contribution

		dx := r.Derive(sim.State{0.1, 0.5, 1.0}, 0)

		if dx[sim.IdxBiomass] <= 0 {
			t.Fatalf("Do=%g: expected positive growth, got %g", do, dx[sim.IdxBiomass])
		}
		if dx[sim.IdxKla] != 0 {
			t.Errorf("Do=%g: expected zero feed-forward, got %g", do, dx[sim.IdxKla])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Bioreactor)
		ok     bool
	}{
		{"stock", func(r *Bioreactor) {}, true},
		{"zero Xm", func(r *Bioreactor) { r.Xm = 0 }, false},
		{"negative Ks", func(r *Bioreactor) { r.Ks = -0.1 }, false},
		{"zero C", func(r *Bioreactor) { r.C = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBioreactor()
			tt.mutate(r)
			err := r.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, sim.ErrParameterBounds) {
					t.Errorf("expected ErrParameterBounds, got %v", err)
				}
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	r := NewBioreactor()
	if err := r.SetParam("ki", 55); err != nil {
		t.Fatalf("set ki: %v", err)
	}
	if r.Ki != 55 {
		t.Errorf("ki not applied: %g", r.Ki)
	}
	if err := r.SetParam("bogus", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func highDemandReactor() *Bioreactor {
	return &Bioreactor{
		Mua: 0.1, Mum: 1.4, Ks: 0.8333, Xm: 1,
		B: 500, C: 1, Kp: 0.2, Ki: 2, Do: 0.8,
	}
}

func TestHighDemandScenario(t *testing.T) {
	r := highDemandReactor()
	s := sim.New(r, integrators.NewEuler())
	grid := sim.Grid{Start: 0, End: 10, Points: 50000}

	result, err := s.Run(context.Background(), sim.State{0.002, 0.3, 0.2}, grid)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	x := result.Channel(sim.IdxBiomass)
	kla := result.Channel(sim.IdxKla)
	dt := grid.Dt()

	for i := 1; i < len(x); i++ {
		if x[i] < x[i-1] {
			t.Fatalf("biomass decreased at step %d: %g -> %g", i, x[i-1], x[i])
		}
	}

	// kla saturates at the ceiling; the derivative clamp allows at most one
	// Euler step of overshoot beyond KlaMax before holding flat.
	maxStep := 0.0
	for i := 1; i < len(kla); i++ {
		if d := math.Abs(kla[i] - kla[i-1]); d > maxStep {
			maxStep = d
		}
	}
	for i, v := range kla {
		if v > KlaMax+maxStep+1e-12 {
			t.Fatalf("kla exceeded the ceiling at step %d: %g (dt=%g)", i, v, dt)
		}
	}
}

func TestSaturatedSetpointScenario(t *testing.T) {
	r := highDemandReactor()
	r.Do = r.C // feed-forward singular: term must vanish for the whole run

	integ := integrators.NewEuler()
	s := sim.New(r, integ)
	grid := sim.Grid{Start: 0, End: 10, Points: 50000}

	result, err := s.Run(context.Background(), sim.State{0.002, 0.3, 0.2}, grid)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// With FF gone, the kla update must equal the pure integral term at
	// every step (or zero in the clamped branches).
	times := result.Times
	for i := 1; i < len(result.States); i++ {
		prev := result.States[i-1]
		dt := times[i] - times[i-1]

		var want float64
		if prev[sim.IdxKla] >= 0 && prev[sim.IdxKla] <= KlaMax {
			want = r.Ki * (r.Do - prev[sim.IdxOxygen])
		}
		got := (result.States[i][sim.IdxKla] - prev[sim.IdxKla]) / dt
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: kla derivative %g, want pure integral %g", i, got, want)
		}
	}
}

func TestTrajectoryFinite(t *testing.T) {
	r := NewBioreactor()
	s := sim.New(r, integrators.NewEuler())

	result, err := s.Run(context.Background(), sim.State{0.002, 0.8, 0.2}, sim.Grid{Start: 0, End: 10, Points: 10000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, st := range result.States {
		if !st.IsValid() {
			t.Fatalf("non-finite state at step %d: %v", i, st)
		}
	}
}
