package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

func frame(step int, ev kinetic.Event, bodies ...sim.BodyState) sim.Frame {
	return sim.Frame{Step: step, Time: float64(step), Event: ev, Bodies: bodies, Changed: true}
}

func body(id int, x, vx, mass float64) sim.BodyState {
	return sim.BodyState{ID: id, Pos: mgl64.Vec3{x, 0, 0}, Vel: mgl64.Vec3{vx, 0, 0}, Radius: 1, Mass: mass}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()

	m.Observe(frame(0, kinetic.NoEvent(0), body(0, 0, 2, 1), body(1, 5, -1, 4)))
	// 0.5*1*4 + 0.5*4*1
	if got := m.Value(); math.Abs(got-4) > 1e-12 {
		t.Errorf("Value = %v, want 4", got)
	}

	m.Observe(frame(1, kinetic.NoEvent(1), body(0, 0, 0, 1), body(1, 5, 0, 4)))
	if got := m.Value(); math.Abs(got-2) > 1e-12 {
		t.Errorf("mean Value = %v, want 2", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(frame(0, kinetic.NoEvent(0), body(0, 0, 2, 1)))
	m.Observe(frame(1, kinetic.NoEvent(1), body(0, 0, 2, 1)))
	if m.Value() != 0 {
		t.Errorf("Value = %v, want 0 for constant energy", m.Value())
	}

	m.Observe(frame(2, kinetic.NoEvent(1), body(0, 0, 1, 1)))
	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Value = %v, want 0.75", got)
	}

	m.Observe(frame(3, kinetic.NoEvent(1), body(0, 0, 2, 1)))
	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Value = %v, want the maximum 0.75 to stick", got)
	}
}

func TestPairMomentum(t *testing.T) {
	m := NewPairMomentum()

	m.Observe(frame(0, kinetic.NoEvent(0), body(0, 0, 1, 1), body(1, 3, -1, 1)))
	m.Observe(frame(1, kinetic.PairEvent(1, 0, 1), body(0, 1, -1, 1), body(1, 2, 1, 1)))
	if m.Value() != 0 {
		t.Errorf("Value = %v, want 0 for an elastic swap", m.Value())
	}

	// A wall flips momentum; that must not count.
	m.Observe(frame(2, kinetic.WallEvent(1, 0), body(0, 0, 1, 1), body(1, 3, 1, 1)))
	if m.Value() != 0 {
		t.Errorf("Value = %v after a wall event, want 0", m.Value())
	}

	m.Observe(frame(3, kinetic.PairEvent(1, 0, 1), body(0, 1, 1, 1), body(1, 2, 2, 1)))
	if got := m.Value(); math.Abs(got-1) > 1e-12 {
		t.Errorf("Value = %v, want 1", got)
	}
}
