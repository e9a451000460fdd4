package metrics

import (
	"math"

	"bioflow/internal/sim"
)

// PeakKla records the largest mass-transfer coefficient seen during a run.
type PeakKla struct {
	peak float64
	seen bool
}

func NewPeakKla() *PeakKla {
	return &PeakKla{}
}

func (p *PeakKla) Name() string { return "peak_kla" }

func (p *PeakKla) Observe(x sim.State, t float64) {
	v := x[sim.IdxKla]
	if !p.seen || v > p.peak {
		p.peak = v
		p.seen = true
	}
}

func (p *PeakKla) Value() float64 { return p.peak }

func (p *PeakKla) Reset() {
	p.peak = 0
	p.seen = false
}

// SetpointDeviation tracks the mean absolute distance of the dissolved
// oxygen from the setpoint; the sweep uses it as its default objective.
type SetpointDeviation struct {
	setpoint float64
	sum      float64
	samples  int
}

func NewSetpointDeviation(setpoint float64) *SetpointDeviation {
	return &SetpointDeviation{setpoint: setpoint}
}

func (s *SetpointDeviation) Name() string { return "setpoint_error" }

func (s *SetpointDeviation) Observe(x sim.State, t float64) {
	s.sum += math.Abs(s.setpoint - x[sim.IdxOxygen])
	s.samples++
}

func (s *SetpointDeviation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *SetpointDeviation) Reset() {
	s.sum = 0
	s.samples = 0
}

// FinalBiomass reports the biomass at the last sample.
type FinalBiomass struct {
	last float64
}

func NewFinalBiomass() *FinalBiomass {
	return &FinalBiomass{}
}

func (f *FinalBiomass) Name() string { return "final_biomass" }

func (f *FinalBiomass) Observe(x sim.State, t float64) {
	f.last = x[sim.IdxBiomass]
}

func (f *FinalBiomass) Value() float64 { return f.last }

func (f *FinalBiomass) Reset() { f.last = 0 }

// MinOxygen records the lowest dissolved-oxygen fraction seen, including
// transient dips below zero.
type MinOxygen struct {
	min  float64
	seen bool
}

func NewMinOxygen() *MinOxygen {
	return &MinOxygen{}
}

func (m *MinOxygen) Name() string { return "min_oxygen" }

func (m *MinOxygen) Observe(x sim.State, t float64) {
	v := x[sim.IdxOxygen]
	if !m.seen || v < m.min {
		m.min = v
		m.seen = true
	}
}

func (m *MinOxygen) Value() float64 { return m.min }

func (m *MinOxygen) Reset() {
	m.min = 0
	m.seen = false
}
