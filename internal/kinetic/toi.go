package kinetic

import "math"

// Never is the time returned when no contact happens in forward time.
var Never = math.Inf(1)

// Epsilon is the distance below which two centers are treated as coincident.
const Epsilon = 1e-9

// PairTime returns the time until the surfaces of a and b touch, or Never.
//
// With Δp and Δv the relative position and velocity and R the radius sum,
// contact satisfies |Δp + Δv·t|² = R², a quadratic At² + Bt + C = 0. The
// earlier root is the moment the spheres first meet. Swapping a and b
// negates Δp and Δv, which leaves A, B and C unchanged.
func PairTime(a, b *Body) float64 {
	dp := a.Pos.Sub(b.Pos)
	dv := a.Vel.Sub(b.Vel)
	r := a.radius + b.radius

	qa := dv.Dot(dv)
	qb := 2 * dp.Dot(dv)
	qc := dp.Dot(dp) - r*r

	if qa == 0 {
		return Never
	}
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return Never
	}

	t := (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 {
		return Never
	}
	return t
}

// WallTime returns the time until the body's center reaches a boundary
// plane of box, or Never when it is at rest on every active axis.
// Axes with zero velocity impose no constraint. A body already at or past a
// wall and moving outward yields 0.
func WallTime(b *Body, box Bounds) float64 {
	best := Never
	for k := 0; k < box.Dim(); k++ {
		t := axisWallTime(b.Pos[k], b.Vel[k], box.Extent(k))
		if t < best {
			best = t
		}
	}
	return best
}

func axisWallTime(p, v, extent float64) float64 {
	var t float64
	switch {
	case v > 0:
		t = (extent - p) / v
	case v < 0:
		t = p / -v
	default:
		return Never
	}
	if t < 0 {
		return 0
	}
	return t
}
