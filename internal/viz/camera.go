package viz

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
)

// Camera orbits the center of a 3D box. Planar boxes ignore it.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	// Distance from the box center in units of the box diagonal.
	Distance float64
}

// NewCamera takes yaw and pitch in degrees.
func NewCamera(yaw, pitch float64) *Camera {
	return &Camera{
		Yaw:      mgl64.DegToRad(yaw),
		Pitch:    mgl64.DegToRad(pitch),
		Zoom:     1.0,
		Distance: 2.5,
	}
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	limit := mgl64.DegToRad(89)
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -limit, limit)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// View rotates a point given relative to the orbit center into camera space,
// where +Z points at the viewer.
func (c *Camera) View(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw)).Mul3x1(p)
}

// Projector maps box coordinates to canvas sub-pixels. Points that land
// outside the canvas are clamped to its edge and counted; Flush logs the
// count once per frame.
type Projector struct {
	box     kinetic.Bounds
	cam     *Camera
	w, h    int
	clamped int
}

func NewProjector(box kinetic.Bounds, cam *Camera, w, h int) *Projector {
	if cam == nil {
		cam = NewCamera(30, 20)
	}
	return &Projector{box: box, cam: cam, w: w, h: h}
}

func (p *Projector) Resize(w, h int)  { p.w, p.h = w, h }
func (p *Projector) Camera() *Camera  { return p.cam }
func (p *Projector) Size() (int, int) { return p.w, p.h }

// Project returns the sub-pixel position of pt, its depth (larger is nearer
// the viewer) and how many sub-pixels one world unit spans there.
func (p *Projector) Project(pt mgl64.Vec3) (x, y int, depth, scale float64) {
	var fx, fy float64
	if p.box.Dim() == 2 {
		scale = math.Min(float64(p.w-1)/p.box.Width, float64(p.h-1)/p.box.Height)
		ox := (float64(p.w-1) - p.box.Width*scale) / 2
		oy := (float64(p.h-1) - p.box.Height*scale) / 2
		fx, fy = ox+pt[0]*scale, oy+pt[1]*scale
	} else {
		diag := p.box.Size().Len()
		q := p.cam.View(pt.Sub(p.box.Size().Mul(0.5))).Mul(1 / diag)
		persp := p.cam.Distance / (p.cam.Distance - q[2])
		base := math.Min(float64(p.w), float64(p.h)) * 0.9 * p.cam.Zoom
		fx = float64(p.w)/2 + q[0]*persp*base
		fy = float64(p.h)/2 - q[1]*persp*base
		depth = q[2]
		scale = persp * base / diag
	}

	x, okx := p.clamp(fx, p.w)
	y, oky := p.clamp(fy, p.h)
	if !okx || !oky {
		p.clamped++
	}
	return x, y, depth, scale
}

func (p *Projector) clamp(v float64, size int) (int, bool) {
	switch {
	case math.IsNaN(v):
		return 0, false
	case v < 0:
		return 0, false
	case v > float64(size-1):
		return size - 1, false
	}
	return int(math.Round(v)), true
}

// Flush logs and resets the number of clamped points since the last call.
func (p *Projector) Flush(step int) int {
	n := p.clamped
	if n > 0 {
		log.Printf("viz: clamped %d out-of-range points at step %d", n, step)
	}
	p.clamped = 0
	return n
}

// BoxEdges returns the outline of box: four edges when planar, twelve
// otherwise.
func BoxEdges(box kinetic.Bounds) [][2]mgl64.Vec3 {
	w, h, d := box.Width, box.Height, box.Depth
	if box.Dim() == 2 {
		c := []mgl64.Vec3{{0, 0, 0}, {w, 0, 0}, {w, h, 0}, {0, h, 0}}
		return [][2]mgl64.Vec3{{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]}}
	}

	v := []mgl64.Vec3{{0, 0, 0}, {w, 0, 0}, {w, h, 0}, {0, h, 0}, {0, 0, d}, {w, 0, d}, {w, h, d}, {0, h, d}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	edges := make([][2]mgl64.Vec3, len(ei))
	for i, e := range ei {
		edges[i] = [2]mgl64.Vec3{v[e[0]], v[e[1]]}
	}
	return edges
}
