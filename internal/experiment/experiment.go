package experiment

import (
	"context"
	"fmt"

	"bioflow/internal/config"
	"bioflow/internal/sim"
)

// Experiment runs one configured simulation: reactor built from the
// parameter set, integrator resolved by name, default metrics attached.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(registry *Registry) error {
	integ, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.simulator = sim.New(BuildModel(e.cfg), integ)
	for _, m := range DefaultMetrics(e.cfg) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) AddObserver(o sim.Observer) {
	e.simulator.AddObserver(o)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}

	grid := sim.Grid{
		Start:  e.cfg.Grid.Start,
		End:    e.cfg.Grid.End,
		Points: e.cfg.Grid.Points,
	}
	return e.simulator.Run(ctx, e.cfg.InitState(), grid)
}
