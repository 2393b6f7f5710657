package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/esim/internal/metrics"
	"github.com/san-kum/esim/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["pair_momentum_error"] = func() sim.Metric { return metrics.NewPairMomentum() }
	r.metrics["collisions"] = func() sim.Metric { return metrics.NewCollisions() }
	r.metrics["wall_hits"] = func() sim.Metric { return metrics.NewWallHits() }
	r.metrics["fallbacks"] = func() sim.Metric { return metrics.NewFallbacks() }
	r.metrics["collision_rate"] = func() sim.Metric { return metrics.NewCollisionRate() }
	r.metrics["max_overlap"] = func() sim.Metric { return metrics.NewOverlap() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(metrics.OverlapTolerance) }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics builds the named metrics, or every registered one when names is
// empty.
func (r *Registry) Metrics(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
