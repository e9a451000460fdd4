package sim

import "math"

// State is a reactor state vector. For the bioreactor model the layout is
// (X, S, kla); see the Idx* constants.
type State []float64

// Indices into a bioreactor State.
const (
	IdxBiomass = 0 // X, normalized biomass concentration
	IdxOxygen  = 1 // S, dissolved-oxygen fraction
	IdxKla     = 2 // kla, mass-transfer coefficient (1/hr)
)

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE system dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Validator is implemented by systems whose parameters carry preconditions.
// The simulator checks it once before the first step.
type Validator interface {
	Validate() error
}

// Integrator advances a state by one explicit step of size dt.
type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

// Metric accumulates a scalar over one run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every sample as it is produced.
type Observer interface {
	OnStep(x State, t float64)
}

// Grid is a uniform sample grid of Points samples on [Start, End],
// t_i = Start + i*(End-Start)/(Points-1).
type Grid struct {
	Start  float64
	End    float64
	Points int
}

func (g Grid) Times() []float64 {
	times := make([]float64, g.Points)
	span := g.End - g.Start
	for i := range times {
		times[i] = g.Start + float64(i)*span/float64(g.Points-1)
	}
	return times
}

// Dt returns the grid spacing.
func (g Grid) Dt() float64 {
	return (g.End - g.Start) / float64(g.Points-1)
}

// Result holds one run's trajectory plus accumulated metrics. States and
// Times have one entry per grid point; the caller owns both after the run.
type Result struct {
	Times   []float64
	States  []State
	Metrics map[string]float64
}

// Channel extracts one state component as a flat series, for plotting and
// CSV export.
func (r *Result) Channel(idx int) []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out
}

func (r *Result) Last() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
