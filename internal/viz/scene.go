package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/sim"
)

// Scene draws frames onto a canvas and keeps the path of one body.
type Scene struct {
	proj     *Projector
	trail    []mgl64.Vec3
	trailLen int
	follow   int
}

// NewScene follows body 0 and keeps up to trailLen points of its path.
func NewScene(proj *Projector, trailLen int) *Scene {
	return &Scene{proj: proj, trailLen: trailLen, trail: make([]mgl64.Vec3, 0, trailLen)}
}

func (s *Scene) Projector() *Projector { return s.proj }

// Track appends the followed body's position in f to the trail.
func (s *Scene) Track(f sim.Frame) {
	if s.trailLen <= 0 || s.follow >= len(f.Bodies) {
		return
	}
	s.trail = append(s.trail, f.Bodies[s.follow].Pos)
	if len(s.trail) > s.trailLen {
		s.trail = s.trail[1:]
	}
}

func (s *Scene) ResetTrail() { s.trail = s.trail[:0] }

func (s *Scene) Trail() []mgl64.Vec3 { return s.trail }

// Draw renders the box outline, the trail and the bodies of f. Nearer bodies
// are drawn last.
func (s *Scene) Draw(c *Canvas, f sim.Frame) {
	c.Clear()

	for _, e := range BoxEdges(s.proj.box) {
		x0, y0, _, _ := s.proj.Project(e[0])
		x1, y1, _, _ := s.proj.Project(e[1])
		c.DrawLine(x0, y0, x1, y1, ToneWall)
	}

	for i := 1; i < len(s.trail); i++ {
		x0, y0, _, _ := s.proj.Project(s.trail[i-1])
		x1, y1, _, _ := s.proj.Project(s.trail[i])
		c.DrawLine(x0, y0, x1, y1, ToneTrail)
	}

	type disk struct {
		x, y, r int
		depth   float64
		tone    Tone
	}
	disks := make([]disk, len(f.Bodies))
	for i, b := range f.Bodies {
		x, y, depth, scale := s.proj.Project(b.Pos)
		tone := ToneBody
		if b.Highlighted {
			tone = ToneHighlight
		}
		disks[i] = disk{x: x, y: y, r: int(b.Radius*scale + 0.5), depth: depth, tone: tone}
	}
	sort.SliceStable(disks, func(i, j int) bool { return disks[i].depth < disks[j].depth })
	for _, d := range disks {
		c.Disk(d.x, d.y, d.r, d.tone)
	}

	s.proj.Flush(f.Step)
}
