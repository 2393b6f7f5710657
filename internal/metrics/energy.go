package metrics

import (
	"math"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

// Energy is the mean total kinetic energy over observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.totalEnergy += f.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation of kinetic energy from
// the first observed frame. Elastic events should keep it at rounding level.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := f.KineticEnergy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// PairMomentum checks conservation across pair events only: walls are
// external and change total momentum, so each pair event is compared with
// the frame before it. Value is the largest change in |Σmv| seen.
type PairMomentum struct {
	name     string
	prev     sim.Frame
	seen     bool
	maxError float64
}

func NewPairMomentum() *PairMomentum {
	return &PairMomentum{name: "pair_momentum_error"}
}

func (m *PairMomentum) Name() string { return m.name }

func (m *PairMomentum) Observe(f sim.Frame) {
	if m.seen && f.Event.Kind == kinetic.KindPair {
		m.maxError = math.Max(m.maxError, f.Momentum().Sub(m.prev.Momentum()).Len())
	}
	m.prev = f
	m.seen = true
}

func (m *PairMomentum) Value() float64 { return m.maxError }

func (m *PairMomentum) Reset() {
	m.prev = sim.Frame{}
	m.seen = false
	m.maxError = 0
}
