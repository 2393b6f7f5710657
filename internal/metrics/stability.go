package metrics

import (
	"math"

	"github.com/san-kum/esim/internal/sim"
)

// penetration returns the deepest overlap between any two bodies in f.
func penetration(f sim.Frame) float64 {
	worst := 0.0
	for i := range f.Bodies {
		a := f.Bodies[i]
		for j := i + 1; j < len(f.Bodies); j++ {
			b := f.Bodies[j]
			depth := a.Radius + b.Radius - a.Pos.Sub(b.Pos).Len()
			worst = math.Max(worst, depth)
		}
	}
	return worst
}

// Overlap is the maximum penetration depth seen across frames.
type Overlap struct {
	name  string
	worst float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(f sim.Frame) {
	o.worst = math.Max(o.worst, penetration(f))
}

func (o *Overlap) Value() float64 { return o.worst }

func (o *Overlap) Reset() { o.worst = 0 }

// Stability is the fraction of frames whose deepest overlap stays within
// threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if penetration(f) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
