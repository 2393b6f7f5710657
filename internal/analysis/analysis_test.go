package analysis

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/spawn"
)

func TestDominantPeriod(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}
	if p := DominantPeriod(series, 64); math.Abs(p-8) > 1e-9 {
		t.Errorf("period = %v, want 8", p)
	}
	if p := DominantPeriod(make([]float64, 16), 16); p != 0 {
		t.Errorf("flat series period = %v, want 0", p)
	}
}

func TestFFT_Pads(t *testing.T) {
	if n := len(FFT(make([]float64, 5))); n != 8 {
		t.Errorf("len = %d, want 8", n)
	}
	ps := PowerSpectrum([]float64{1, 1, 1, 1})
	if ps[0] != 4 || ps[1] != 0 {
		t.Errorf("spectrum of a constant = %v", ps)
	}
}

func TestSpeedHistogram(t *testing.T) {
	edges, counts := SpeedHistogram([]float64{0, 1, 2, 3, 4}, 4)
	if len(edges) != 5 || edges[4] != 4 {
		t.Fatalf("edges = %v", edges)
	}
	want := []int{1, 1, 1, 2}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts = %v, want %v", counts, want)
			break
		}
	}
	if e, c := SpeedHistogram(nil, 4); e != nil || c != nil {
		t.Error("empty input should give nothing")
	}
}

func TestEquilibriumDeviation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	thermal := make([]float64, 4000)
	for i := range thermal {
		thermal[i] = math.Hypot(rng.NormFloat64(), rng.NormFloat64())
	}
	if d := EquilibriumDeviation(thermal, 2); d > 0.05 {
		t.Errorf("Rayleigh sample deviation = %v", d)
	}

	maxwell := make([]float64, 4000)
	for i := range maxwell {
		maxwell[i] = mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Len()
	}
	if d := EquilibriumDeviation(maxwell, 3); d > 0.05 {
		t.Errorf("Maxwell sample deviation = %v", d)
	}

	uniform := make([]float64, 100)
	for i := range uniform {
		uniform[i] = 1
	}
	if d := EquilibriumDeviation(uniform, 2); d < 0.3 {
		t.Errorf("equal speeds deviation = %v, want far from equilibrium", d)
	}
}

func pairFrame(t float64, a, b int) sim.Frame {
	return sim.Frame{Time: t, Step: 1, Event: kinetic.PairEvent(0, a, b), Changed: true}
}

func TestCollisionSeriesAndMeanFreeTime(t *testing.T) {
	frames := []sim.Frame{
		{Time: 0},
		pairFrame(1, 0, 1),
		{Time: 2, Step: 2, Event: kinetic.WallEvent(0, 0)},
		pairFrame(3, 0, 2),
		pairFrame(7, 0, 1),
		{Time: 10, Step: 5, Event: kinetic.PairEvent(0, 1, 2)},
	}

	series, span := CollisionSeries(frames, 2)
	if span != 10 || series[0] != 2 || series[1] != 1 {
		t.Errorf("series = %v over %v", series, span)
	}

	// body 0: 1->3->7, body 1: 1->7, body 2: one collision
	want := (2.0 + 4.0 + 6.0) / 3
	if got := MeanFreeTime(frames); math.Abs(got-want) > 1e-12 {
		t.Errorf("MeanFreeTime = %v, want %v", got, want)
	}
	if MeanFreeTime(frames[:2]) != 0 {
		t.Error("a single collision has no interval")
	}
}

func TestOccupancy(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 100}
	frames := []sim.Frame{
		{Bodies: []sim.BodyState{{Pos: mgl64.Vec3{5, 5, 0}}, {Pos: mgl64.Vec3{95, 95, 0}}}},
		{Bodies: []sim.BodyState{{Pos: mgl64.Vec3{5, 5, 0}}, {Pos: mgl64.Vec3{150, 50, 0}}}},
	}

	o := NewOccupancy(box, frames, 10, 10)
	if o.Counts[0][0] != 2 || o.Counts[9][9] != 1 || o.Max != 2 {
		t.Errorf("counts = %v", o.Counts)
	}

	lines := strings.Split(strings.TrimRight(o.ASCII(), "\n"), "\n")
	if len(lines) != 10 || lines[0][0] != '@' || lines[0][1] != ' ' {
		t.Errorf("ascii =\n%s", o.ASCII())
	}
}

func TestLyapunov_SingleBody(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 100}
	b, err := kinetic.NewBody(0, mgl64.Vec3{50, 50, 0}, mgl64.Vec3{1, 0.3, 0}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	d, err := LyapunovExponent(box, []*kinetic.Body{b}, sim.DefaultConfig(), 1e-6, 500, 10)
	if err != nil {
		t.Fatalf("LyapunovExponent: %v", err)
	}
	if len(d.Times) != 10 || d.Times[9] != 500 {
		t.Errorf("times = %v", d.Times)
	}
	if math.Abs(d.Exponent) > 1e-4 {
		t.Errorf("exponent = %v, want about 0 for a lone body", d.Exponent)
	}
	if b.Pos != (mgl64.Vec3{50, 50, 0}) {
		t.Error("input bodies were modified")
	}
}

func TestLyapunov_Gas(t *testing.T) {
	box := kinetic.Bounds{Width: 300, Height: 300}
	p := spawn.DefaultParams()
	p.Count = 40
	p.Speed = 1
	p.Margin = 10
	arena, err := spawn.Generate(box, p, 3)
	if err != nil {
		t.Fatal(err)
	}

	d, err := LyapunovExponent(box, arena.Bodies(), sim.DefaultConfig(), 1e-9, 1500, 30)
	if err != nil {
		t.Fatalf("LyapunovExponent: %v", err)
	}
	if d.Exponent <= 0 {
		t.Errorf("exponent = %v, want positive for a hard-disk gas", d.Exponent)
	}
}

func TestLyapunov_Rejects(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 100}
	b, _ := kinetic.NewBody(0, mgl64.Vec3{50, 50, 0}, mgl64.Vec3{1, 0, 0}, 1, 1)

	cfg := sim.DefaultConfig()
	cfg.Mode = sim.AdvancePartial
	if _, err := LyapunovExponent(box, []*kinetic.Body{b}, cfg, 1e-9, 10, 2); !errors.Is(err, ErrPartialAdvance) {
		t.Errorf("partial mode: err = %v", err)
	}
	if _, err := LyapunovExponent(box, nil, sim.DefaultConfig(), 1e-9, 10, 2); !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("no bodies: err = %v", err)
	}
}

func TestAdvanceTo_EventAtSampleTime(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 100}
	b, err := kinetic.NewBody(0, mgl64.Vec3{50, 50, 0}, mgl64.Vec3{0, -0.5, 0}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(box, []*kinetic.Body{b}, sim.Config{MaxAdvance: 1000, Mode: sim.AdvanceSynchronized})
	if err != nil {
		t.Fatal(err)
	}

	// The wall is due at t=100; a sample a rounding error earlier still
	// resolves it.
	if err := advanceTo(s, 100-1e-12); err != nil {
		t.Fatalf("advanceTo: %v", err)
	}
	if v := s.Bodies()[0].Vel; v[1] != 0.5 {
		t.Errorf("velocity = %v, want the wall resolved", v)
	}
	if math.Abs(s.Time()-100) > 1e-9 {
		t.Errorf("Time = %v, want 100", s.Time())
	}
}
