// Package spawn builds initial body sets. It is the only place randomness
// enters a run; the simulator itself is deterministic.
package spawn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
)

var (
	ErrInvalidParams = errors.New("spawn: invalid parameters")
	ErrCrowded       = errors.New("spawn: no free space for body")
)

type Layout string

const (
	// Uniform scatters bodies over [margin, extent-margin] on every axis.
	Uniform Layout = "uniform"
	// Grid places bodies on a lattice from Start in steps of Step.
	Grid Layout = "grid"
	// Line spaces bodies evenly along the horizontal midline with
	// alternating velocities, which gives head-on pairs.
	Line Layout = "line"
)

func Layouts() []Layout { return []Layout{Uniform, Grid, Line} }

type Params struct {
	Layout Layout  `yaml:"layout" json:"layout"`
	Count  int     `yaml:"count" json:"count"`
	Radius float64 `yaml:"radius" json:"radius"`
	Mass   float64 `yaml:"mass" json:"mass"`
	// Speed bounds each velocity component to [-Speed, Speed].
	Speed     float64 `yaml:"speed" json:"speed"`
	Margin    float64 `yaml:"margin" json:"margin"`
	Start     float64 `yaml:"start" json:"start"`
	Step      float64 `yaml:"step" json:"step"`
	NoOverlap bool    `yaml:"no_overlap" json:"no_overlap"`
	MaxTries  int     `yaml:"max_tries" json:"max_tries"`
}

func DefaultParams() Params {
	return Params{
		Layout:    Uniform,
		Count:     30,
		Radius:    10,
		Mass:      1,
		Speed:     0.5,
		Margin:    100,
		Start:     20,
		Step:      50,
		NoOverlap: true,
		MaxTries:  1000,
	}
}

func (p Params) Validate() error {
	if !(p.Radius > 0) || !(p.Mass > 0) {
		return fmt.Errorf("%w: radius and mass must be positive", ErrInvalidParams)
	}
	if p.Speed < 0 || math.IsInf(p.Speed, 0) || math.IsNaN(p.Speed) {
		return fmt.Errorf("%w: speed must be finite and not negative", ErrInvalidParams)
	}
	switch p.Layout {
	case Uniform, Line:
		if p.Count < 0 {
			return fmt.Errorf("%w: negative count", ErrInvalidParams)
		}
	case Grid:
		if !(p.Step > 0) {
			return fmt.Errorf("%w: grid step must be positive", ErrInvalidParams)
		}
	default:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidParams, p.Layout)
	}
	return nil
}

// Generate builds the bodies for box with a generator seeded by seed, so the
// same inputs always give the same bodies.
func Generate(box kinetic.Bounds, p Params, seed int64) (*kinetic.Arena, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	arena := kinetic.NewArena()

	var err error
	switch p.Layout {
	case Uniform:
		err = uniform(arena, box, p, rng)
	case Grid:
		err = grid(arena, box, p, rng)
	case Line:
		err = line(arena, box, p)
	}
	if err != nil {
		return nil, err
	}
	return arena, nil
}

func uniform(arena *kinetic.Arena, box kinetic.Bounds, p Params, rng *rand.Rand) error {
	lo := math.Max(p.Margin, p.Radius)
	for k := 0; k < box.Dim(); k++ {
		if box.Extent(k)-lo < lo {
			return fmt.Errorf("%w: margin %g leaves no room on axis %d", ErrInvalidParams, lo, k)
		}
	}

	tries := p.MaxTries
	if tries < 1 {
		tries = 1
	}

	for i := 0; i < p.Count; i++ {
		placed := false
		for try := 0; try < tries && !placed; try++ {
			var pos mgl64.Vec3
			for k := 0; k < box.Dim(); k++ {
				pos[k] = lo + rng.Float64()*(box.Extent(k)-2*lo)
			}
			if p.NoOverlap && overlaps(arena.Bodies(), pos, p.Radius) {
				continue
			}
			if _, err := arena.Add(pos, velocity(box, p.Speed, rng), p.Radius, p.Mass); err != nil {
				return err
			}
			placed = true
		}
		if !placed {
			return fmt.Errorf("%w: body %d after %d tries", ErrCrowded, i, tries)
		}
	}
	return nil
}

func grid(arena *kinetic.Arena, box kinetic.Bounds, p Params, rng *rand.Rand) error {
	start := math.Max(p.Start, p.Radius)
	axis := func(k int) []float64 {
		if k >= box.Dim() {
			return []float64{0}
		}
		var out []float64
		for c := start; c+p.Radius <= box.Extent(k); c += p.Step {
			out = append(out, c)
		}
		return out
	}

	xs, ys, zs := axis(0), axis(1), axis(2)
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				if p.Count > 0 && arena.Len() >= p.Count {
					return nil
				}
				pos := mgl64.Vec3{x, y, z}
				if p.NoOverlap && overlaps(arena.Bodies(), pos, p.Radius) {
					return fmt.Errorf("%w: grid step %g is smaller than a diameter", ErrCrowded, p.Step)
				}
				if _, err := arena.Add(pos, velocity(box, p.Speed, rng), p.Radius, p.Mass); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func line(arena *kinetic.Arena, box kinetic.Bounds, p Params) error {
	if p.Count == 0 {
		return nil
	}
	gap := box.Width / float64(p.Count+1)
	if p.NoOverlap && gap < 2*p.Radius {
		return fmt.Errorf("%w: %d bodies do not fit on the midline", ErrCrowded, p.Count)
	}

	mid := mgl64.Vec3{0, box.Height / 2, box.Depth / 2}
	for i := 0; i < p.Count; i++ {
		pos := mid
		pos[0] = gap * float64(i+1)
		vel := mgl64.Vec3{p.Speed, 0, 0}
		if i%2 == 1 {
			vel[0] = -p.Speed
		}
		if _, err := arena.Add(pos, vel, p.Radius, p.Mass); err != nil {
			return err
		}
	}
	return nil
}

func velocity(box kinetic.Bounds, speed float64, rng *rand.Rand) mgl64.Vec3 {
	var v mgl64.Vec3
	for k := 0; k < box.Dim(); k++ {
		v[k] = (rng.Float64()*2 - 1) * speed
	}
	return v
}

func overlaps(bodies []*kinetic.Body, pos mgl64.Vec3, radius float64) bool {
	for _, b := range bodies {
		r := b.Radius() + radius
		if b.Pos.Sub(pos).LenSqr() < r*r {
			return true
		}
	}
	return false
}
