package kinetic

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is one rigid sphere. Radius and mass are fixed at construction;
// Pos and Vel change only through Advance, Resolve and Reflect.
type Body struct {
	ID  int
	Pos mgl64.Vec3
	Vel mgl64.Vec3

	radius float64
	mass   float64
}

// NewBody validates the physical constants and returns a body with the given id.
// Most callers should go through an Arena so ids stay unique.
func NewBody(id int, pos, vel mgl64.Vec3, radius, mass float64) (*Body, error) {
	if !(radius > 0) || !(mass > 0) || math.IsInf(radius, 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: radius=%g mass=%g", ErrInvalidBody, radius, mass)
	}
	if !finite(pos) || !finite(vel) {
		return nil, fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	return &Body{ID: id, Pos: pos, Vel: vel, radius: radius, mass: mass}, nil
}

func (b *Body) Radius() float64 { return b.radius }
func (b *Body) Mass() float64   { return b.mass }

// Advance moves the body along its velocity for dt time units.
func (b *Body) Advance(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

func (b *Body) Momentum() mgl64.Vec3 { return b.Vel.Mul(b.mass) }

func (b *Body) KineticEnergy() float64 { return 0.5 * b.mass * b.Vel.Dot(b.Vel) }

// IsValid reports whether position and velocity are free of NaN and Inf.
func (b *Body) IsValid() bool { return finite(b.Pos) && finite(b.Vel) }

// Clone returns an independent copy that keeps the same id.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// Arena owns a body collection and hands out ids. Ids are the insertion
// index, so they are dense, start at zero and are never reused.
type Arena struct {
	next   int
	bodies []*Body
}

func NewArena() *Arena {
	return &Arena{bodies: make([]*Body, 0)}
}

// Add constructs a body with the next free id and appends it.
func (a *Arena) Add(pos, vel mgl64.Vec3, radius, mass float64) (*Body, error) {
	b, err := NewBody(a.next, pos, vel, radius, mass)
	if err != nil {
		return nil, err
	}
	a.next++
	a.bodies = append(a.bodies, b)
	return b, nil
}

// Bodies returns the backing slice; index i holds the body with ID i.
func (a *Arena) Bodies() []*Body { return a.bodies }

func (a *Arena) Len() int { return len(a.bodies) }

// CloneBodies deep-copies a body list, preserving ids and order.
func CloneBodies(bodies []*Body) []*Body {
	out := make([]*Body, len(bodies))
	for i, b := range bodies {
		out[i] = b.Clone()
	}
	return out
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
