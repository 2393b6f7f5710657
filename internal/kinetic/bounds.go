package kinetic

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is the axis-aligned box [0,Width]x[0,Height]x[0,Depth].
// Depth == 0 means the simulation is planar.
type Bounds struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Depth  float64 `yaml:"depth" json:"depth"`
}

// Dim returns 2 for a planar box and 3 otherwise.
func (b Bounds) Dim() int {
	if b.Depth == 0 {
		return 2
	}
	return 3
}

// Extent returns the box size along axis k.
func (b Bounds) Extent(k int) float64 {
	switch k {
	case 0:
		return b.Width
	case 1:
		return b.Height
	default:
		return b.Depth
	}
}

// Size returns the extents as a vector.
func (b Bounds) Size() mgl64.Vec3 { return mgl64.Vec3{b.Width, b.Height, b.Depth} }

func (b Bounds) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || b.Depth < 0 {
		return fmt.Errorf("%w: %gx%gx%g", ErrInvalidBounds, b.Width, b.Height, b.Depth)
	}
	return nil
}

// Contains reports whether a body center lies inside the box, walls included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	for k := 0; k < b.Dim(); k++ {
		if p[k] < 0 || p[k] > b.Extent(k) {
			return false
		}
	}
	return true
}

// Planar reports whether every body has zero Z position and velocity,
// which a 2D box requires.
func (b Bounds) Planar(bodies []*Body) bool {
	for _, body := range bodies {
		if body.Pos[2] != 0 || body.Vel[2] != 0 {
			return false
		}
	}
	return true
}
