package integrators

import "bioflow/internal/sim"

// Euler is the forward (explicit) Euler scheme. It is the reference
// integrator for the bioreactor model: bound clamps act on derivatives
// only, so each update is exactly x + f(x, t)*dt with no error control.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.System, x sim.State, t, dt float64) sim.State {
	dx := dyn.Derive(x, t)
	result := make(sim.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
