package kinetic

import "github.com/go-gl/mathgl/mgl64"

// Resolve applies the elastic impulse between a and b along the line of
// centers and reports whether velocities changed. Bodies that are already
// separating along the normal are left alone, which keeps a contact reached
// exactly at its touching instant from being processed twice.
func Resolve(a, b *Body) bool {
	n := contactNormal(a, b)
	dv := a.Vel.Sub(b.Vel)
	closing := dv.Dot(n)
	if closing >= 0 {
		return false
	}

	j := 2 * closing / (a.mass + b.mass)
	a.Vel = a.Vel.Sub(n.Mul(j * b.mass))
	b.Vel = b.Vel.Add(n.Mul(j * a.mass))
	return true
}

// contactNormal is the unit vector from b to a. Coincident centers fall back
// to the direction of relative motion reversed (so the pair is treated as
// head-on), and to +X when the bodies are also at relative rest.
func contactNormal(a, b *Body) mgl64.Vec3 {
	d := a.Pos.Sub(b.Pos)
	if l := d.Len(); l >= Epsilon {
		return d.Mul(1 / l)
	}
	dv := a.Vel.Sub(b.Vel)
	if l := dv.Len(); l >= Epsilon {
		return dv.Mul(-1 / l)
	}
	return mgl64.Vec3{1, 0, 0}
}

// Reflect flips each velocity component that points out of box while the
// body touches or crosses that wall, and returns how many axes flipped.
// A body resting on a wall with zero or inward velocity is not touched.
func Reflect(b *Body, box Bounds) int {
	flipped := 0
	for k := 0; k < box.Dim(); k++ {
		p, v, ext := b.Pos[k], b.Vel[k], box.Extent(k)
		if (v < 0 && p-b.radius <= 0) || (v > 0 && p+b.radius >= ext) {
			b.Vel[k] = -v
			flipped++
		}
	}
	return flipped
}
