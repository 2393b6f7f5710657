package sim

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
)

// AdvanceMode selects which bodies move to the event instant on a tick.
type AdvanceMode uint8

const (
	// AdvanceSynchronized moves every body by the event time, so all bodies
	// share one clock.
	AdvanceSynchronized AdvanceMode = iota
	// AdvancePartial moves only the event participants. Bodies that sit out
	// an event keep their old positions. Fallback ticks still move everyone.
	AdvancePartial
)

func (m AdvanceMode) String() string {
	if m == AdvancePartial {
		return "partial"
	}
	return "synchronized"
}

func ParseAdvanceMode(s string) (AdvanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "synchronized", "sync":
		return AdvanceSynchronized, nil
	case "partial":
		return AdvancePartial, nil
	}
	return AdvanceSynchronized, fmt.Errorf("%w: unknown advance mode %q", ErrInvalidConfig, s)
}

type Config struct {
	// Ticks caps the number of events processed by Run. Zero means no cap.
	Ticks int
	// Duration caps simulated time. Zero means no cap. Run needs at least
	// one of Ticks or Duration.
	Duration float64
	// MaxAdvance is how far the clock moves on a tick with no finite event.
	MaxAdvance    float64
	Mode          AdvanceMode
	Seed          int64
	ValidateState bool
	// Record keeps every RecordEvery-th frame in Result.Frames.
	Record      bool
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Ticks:         1000,
		MaxAdvance:    1000,
		Mode:          AdvanceSynchronized,
		ValidateState: true,
		RecordEvery:   1,
	}
}

// BodyState is a read-only copy of a body taken after a tick.
type BodyState struct {
	ID          int
	Pos         mgl64.Vec3
	Vel         mgl64.Vec3
	Radius      float64
	Mass        float64
	// Highlighted marks participants of an event that changed velocities.
	Highlighted bool
}

// Frame is what the simulator emits after each tick.
type Frame struct {
	Step   int
	Time   float64
	Event  kinetic.Event
	Bodies []BodyState
	// Changed is false when a pair event found the bodies already separating.
	Changed bool
	// Flips counts velocity components reversed by a wall event.
	Flips int
}

func (f Frame) KineticEnergy() float64 {
	e := 0.0
	for _, b := range f.Bodies {
		e += 0.5 * b.Mass * b.Vel.Dot(b.Vel)
	}
	return e
}

func (f Frame) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range f.Bodies {
		p = p.Add(b.Vel.Mul(b.Mass))
	}
	return p
}

// Highlighted returns the ids of bodies whose velocities the event of f
// changed.
func (f Frame) Highlighted() []int {
	var ids []int
	for _, b := range f.Bodies {
		if b.Highlighted {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Result struct {
	Seed        int64
	Frames      []Frame
	Final       Frame
	Metrics     map[string]float64
	Events      map[kinetic.Kind]int
	EnergyDrift float64
	StepsTaken  int
	Time        float64
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
