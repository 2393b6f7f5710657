package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

// Speeds returns the body speeds of f in ascending order.
func Speeds(f sim.Frame) []float64 {
	speeds := make([]float64, len(f.Bodies))
	for i, b := range f.Bodies {
		speeds[i] = b.Vel.Len()
	}
	sort.Float64s(speeds)
	return speeds
}

// SpeedHistogram splits [0, max speed] into bins of equal width. edges has
// bins+1 entries.
func SpeedHistogram(speeds []float64, bins int) (edges []float64, counts []int) {
	if bins < 1 || len(speeds) == 0 {
		return nil, nil
	}
	top := 0.0
	for _, s := range speeds {
		top = math.Max(top, s)
	}
	if top == 0 {
		top = 1
	}

	width := top / float64(bins)
	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = float64(i) * width
	}
	counts = make([]int, bins)
	for _, s := range speeds {
		i := int(s / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return edges, counts
}

// EquilibriumDeviation is the Kolmogorov-Smirnov distance between speeds and
// the Maxwell-Boltzmann speed distribution with the same mean square speed
// in dim dimensions. It assumes equal masses. Values near 0 mean the gas has
// thermalized.
func EquilibriumDeviation(speeds []float64, dim int) float64 {
	n := len(speeds)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), speeds...)
	sort.Float64s(sorted)

	meanSq := 0.0
	for _, s := range sorted {
		meanSq += s * s
	}
	meanSq /= float64(n)
	if meanSq == 0 {
		return 0
	}

	cdf := func(v float64) float64 {
		if dim == 2 {
			return 1 - math.Exp(-v*v/meanSq)
		}
		a := math.Sqrt(meanSq / 3)
		x := v / a
		return math.Erf(x/math.Sqrt2) - math.Sqrt(2/math.Pi)*x*math.Exp(-x*x/2)
	}

	worst := 0.0
	for i, s := range sorted {
		f := cdf(s)
		lo := math.Abs(f - float64(i)/float64(n))
		hi := math.Abs(f - float64(i+1)/float64(n))
		worst = math.Max(worst, math.Max(lo, hi))
	}
	return worst
}

// CollisionSeries counts velocity-changing pair events of frames in bins
// equal time bins spanning the frames. It returns the series and the span.
func CollisionSeries(frames []sim.Frame, bins int) ([]float64, float64) {
	if len(frames) < 2 || bins < 1 {
		return nil, 0
	}
	start, end := frames[0].Time, frames[len(frames)-1].Time
	span := end - start
	if span <= 0 {
		return nil, 0
	}

	series := make([]float64, bins)
	for _, f := range frames {
		if f.Event.Kind != kinetic.KindPair || !f.Changed {
			continue
		}
		i := int((f.Time - start) / span * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		series[i]++
	}
	return series, span
}

// MeanFreeTime is the mean time between consecutive pair collisions of the
// same body. frames must hold every step for the result to be exact.
func MeanFreeTime(frames []sim.Frame) float64 {
	last := make(map[int]float64)
	total, intervals := 0.0, 0

	for _, f := range frames {
		if f.Event.Kind != kinetic.KindPair || !f.Changed {
			continue
		}
		for _, id := range f.Event.Participants() {
			if t, ok := last[id]; ok {
				total += f.Time - t
				intervals++
			}
			last[id] = f.Time
		}
	}

	if intervals == 0 {
		return 0
	}
	return total / float64(intervals)
}
