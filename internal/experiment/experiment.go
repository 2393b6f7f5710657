package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/esim/internal/config"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/spawn"
)

type Experiment struct {
	cfg       *config.Config
	simCfg    sim.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) (*Experiment, error) {
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, simCfg: simCfg}, nil
}

// Setup spawns the initial bodies and builds the simulator.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	bodies, err := Factory(e.cfg)(e.cfg.Seed)
	if err != nil {
		return err
	}

	s, err := sim.New(e.cfg.Bounds, bodies, e.simCfg)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Factory spawns bodies for cfg with a caller-chosen seed, for ensembles.
func Factory(cfg *config.Config) sim.Factory {
	return func(seed int64) ([]*kinetic.Body, error) {
		arena, err := spawn.Generate(cfg.Bounds, cfg.Spawn, seed)
		if err != nil {
			return nil, err
		}
		return arena.Bodies(), nil
	}
}

// NewEnsemble runs cfg for numRuns consecutive seeds starting at cfg.Seed.
func NewEnsemble(cfg *config.Config, numRuns int, reg *Registry) *sim.Ensemble {
	return sim.NewEnsemble(cfg.Bounds, Factory(cfg), numRuns, cfg.Seed).
		WithMetrics(reg.DefaultMetrics)
}
