package metrics

import (
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

// EventCount counts frames whose event has the given kind.
type EventCount struct {
	name  string
	kind  kinetic.Kind
	count int
}

// NewCollisions counts pair events that changed velocities.
func NewCollisions() *EventCount { return &EventCount{name: "collisions", kind: kinetic.KindPair} }

func NewWallHits() *EventCount { return &EventCount{name: "wall_hits", kind: kinetic.KindWall} }

// NewFallbacks counts ticks that found no finite event and drifted.
func NewFallbacks() *EventCount { return &EventCount{name: "fallbacks", kind: kinetic.KindNone} }

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(f sim.Frame) {
	// The initial snapshot has step 0 and carries no event.
	if f.Step == 0 || f.Event.Kind != c.kind {
		return
	}
	if c.kind == kinetic.KindPair && !f.Changed {
		return
	}
	c.count++
}

func (c *EventCount) Value() float64 { return float64(c.count) }

func (c *EventCount) Reset() { c.count = 0 }

// CollisionRate is pair collisions per unit of simulated time.
type CollisionRate struct {
	name       string
	collisions int
	start      float64
	last       float64
	seen       bool
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(f sim.Frame) {
	if !c.seen {
		c.start = f.Time
		c.seen = true
	}
	c.last = f.Time
	if f.Step > 0 && f.Event.Kind == kinetic.KindPair && f.Changed {
		c.collisions++
	}
}

func (c *CollisionRate) Value() float64 {
	span := c.last - c.start
	if span <= 0 {
		return 0
	}
	return float64(c.collisions) / span
}

func (c *CollisionRate) Reset() {
	c.collisions = 0
	c.start, c.last = 0, 0
	c.seen = false
}
