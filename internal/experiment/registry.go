package experiment

import (
	"fmt"

	"bioflow/internal/config"
	"bioflow/internal/integrators"
	"bioflow/internal/metrics"
	"bioflow/internal/models"
	"bioflow/internal/sim"
)

// Registry maps integrator names to factories and assembles models from
// configuration.
type Registry struct {
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() sim.Integrator),
	}
	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() sim.Integrator { return integrators.NewRK4() }
	return r
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// BuildModel constructs a reactor from the configured parameter set.
func BuildModel(cfg *config.Config) *models.Bioreactor {
	p := cfg.Params
	return &models.Bioreactor{
		Mua: p.Mua,
		Mum: p.Mum,
		Ks:  p.Ks,
		Xm:  p.Xm,
		B:   p.B,
		C:   p.C,
		Kp:  p.Kp,
		Ki:  p.Ki,
		Do:  p.Do,
	}
}

// DefaultMetrics returns the standard per-run observers.
func DefaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewPeakKla(),
		metrics.NewSetpointDeviation(cfg.Params.Do),
		metrics.NewFinalBiomass(),
		metrics.NewMinOxygen(),
	}
}
