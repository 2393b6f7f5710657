package metrics

import (
	"sort"

	"github.com/san-kum/esim/internal/sim"
)

// OverlapTolerance is the penetration depth Default's stability metric
// accepts as rounding.
const OverlapTolerance = 1e-6

// Default returns a fresh instance of every metric a run reports.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewPairMomentum(),
		NewCollisions(),
		NewWallHits(),
		NewFallbacks(),
		NewCollisionRate(),
		NewOverlap(),
		NewStability(OverlapTolerance),
	}
}

// Names lists the metric names of Default in sorted order.
func Names() []string {
	var names []string
	for _, m := range Default() {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
