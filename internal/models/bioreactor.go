package models

import (
	"fmt"

	"bioflow/internal/sim"
)

// KlaMax is the actuator ceiling on the mass-transfer coefficient (1/hr).
// Once kla crosses it, its derivative is forced to zero for the next step.
const KlaMax = 20.0

// Bioreactor models NPEC growth, dissolved-oxygen depletion, and a
// controlled mass-transfer coefficient kla. State layout is (X, S, kla).
//
// Growth follows a logistic-Monod law; oxygen supply is driven toward the
// setpoint Do by an integral controller plus a feed-forward term that
// anticipates demand from the biomass growth rate.
type Bioreactor struct {
	Mua float64 // anaerobic growth rate (1/hr)
	Mum float64 // maximum specific growth rate with oxygen (1/hr)
	Ks  float64 // Monod half-saturation constant
	Xm  float64 // carrying capacity
	B   float64 // oxygen consumption rate per unit biomass (1/hr)
	C   float64 // maximum dissolvable oxygen concentration
	Kp  float64 // proportional gain; not used by the kla law, kept for tuning records
	Ki  float64 // integral gain (1/hr)
	Do  float64 // dissolved-oxygen setpoint
}

// NewBioreactor returns a reactor with the stock parameter set.
func NewBioreactor() *Bioreactor {
	return &Bioreactor{
		Mua: 0.1,
		Mum: 1.4,
		Ks:  0.8,
		Xm:  1.0,
		B:   100.0,
		C:   1.0,
		Kp:  0.2,
		Ki:  110.0,
		Do:  0.8,
	}
}

func (r *Bioreactor) StateDim() int { return 3 }

// Validate checks the parameter preconditions. A violation aborts a run
// before the first step.
func (r *Bioreactor) Validate() error {
	if r.Xm <= 0 {
		return fmt.Errorf("%w: Xm must be positive, got %g", sim.ErrParameterBounds, r.Xm)
	}
	if r.Ks <= 0 {
		return fmt.Errorf("%w: Ks must be positive, got %g", sim.ErrParameterBounds, r.Ks)
	}
	if r.C <= 0 {
		return fmt.Errorf("%w: C must be positive, got %g", sim.ErrParameterBounds, r.C)
	}
	return nil
}

// Derive returns (dXdt, dSdt, dkladt). Pure and stateless.
//
// All bounds are derivative clamps, not state clamps:
//
//   - S < 0 holds the substrate flat (physical floor).
//   - kla < 0 suppresses the integral part only; feed-forward still applies.
//   - kla > KlaMax zeroes the whole kla derivative (actuator saturation).
//   - C - Do <= 0 drops the feed-forward term (singular steady-state ratio).
//
// If S reaches exactly -Ks the Monod term divides by zero; the resulting
// non-finite value propagates out and the run loop aborts on it.
func (r *Bioreactor) Derive(x sim.State, t float64) sim.State {
	X := x[sim.IdxBiomass]
	S := x[sim.IdxOxygen]
	kla := x[sim.IdxKla]

	dXdt := (r.Mua + r.Mum*S/(r.Ks+S)) * (1 - X/r.Xm) * X

	var dSdt float64
	if S >= 0 {
		dSdt = -X*r.B + kla*(r.C-S)
	}

	var dkladt float64
	if kla <= KlaMax {
		var pi float64
		if kla >= 0 {
			pi = r.Ki * (r.Do - S)
		}
		var ff float64
		if r.C-r.Do > 0 {
			ff = r.B / (r.C - r.Do) * dXdt
		}
		dkladt = pi + ff
	}

	return sim.State{dXdt, dSdt, dkladt}
}

// GetParams exposes the tunable parameters for live adjustment.
func (r *Bioreactor) GetParams() map[string]float64 {
	return map[string]float64{
		"mua": r.Mua,
		"mum": r.Mum,
		"ks":  r.Ks,
		"xm":  r.Xm,
		"b":   r.B,
		"c":   r.C,
		"kp":  r.Kp,
		"ki":  r.Ki,
		"do":  r.Do,
	}
}

// SetParam adjusts one parameter by name; unknown names are rejected.
func (r *Bioreactor) SetParam(name string, value float64) error {
	switch name {
	case "mua":
		r.Mua = value
	case "mum":
		r.Mum = value
	case "ks":
		r.Ks = value
	case "xm":
		r.Xm = value
	case "b":
		r.B = value
	case "c":
		r.C = value
	case "kp":
		r.Kp = value
	case "ki":
		r.Ki = value
	case "do":
		r.Do = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
