package kinetic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func vecClose(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func momentum(bs ...*Body) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bs {
		p = p.Add(b.Momentum())
	}
	return p
}

func energy(bs ...*Body) float64 {
	e := 0.0
	for _, b := range bs {
		e += b.KineticEnergy()
	}
	return e
}

func TestResolve_HeadOnEqualMassSwaps(t *testing.T) {
	a := mustBody(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 1, 1)
	b := mustBody(t, 1, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{-1, 0, 0}, 1, 1)

	tc := PairTime(a, b)
	a.Advance(tc)
	b.Advance(tc)

	if !Resolve(a, b) {
		t.Fatal("Resolve reported no change for approaching pair")
	}
	if !vecClose(a.Vel, mgl64.Vec3{-1, 0, 0}, tol) {
		t.Errorf("a.Vel = %v, want [-1 0 0]", a.Vel)
	}
	if !vecClose(b.Vel, mgl64.Vec3{1, 0, 0}, tol) {
		t.Errorf("b.Vel = %v, want [1 0 0]", b.Vel)
	}
}

func TestResolve_Conservation(t *testing.T) {
	tests := []struct {
		name   string
		ma, mb float64
	}{
		{"equal masses", 1, 1},
		{"light on heavy", 1, 10},
		{"heavy on light", 7.5, 0.3},
		{"near equal", 2, 2.0001},
	}

	rng := rand.New(rand.NewSource(42))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				dir := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Normalize()
				a := mustBody(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}, 1, tt.ma)
				b := mustBody(t, 1, dir.Mul(2), mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}, 1, tt.mb)

				p0, e0 := momentum(a, b), energy(a, b)
				Resolve(a, b)
				p1, e1 := momentum(a, b), energy(a, b)

				if !vecClose(p0, p1, 1e-9*(1+p0.Len())) {
					t.Fatalf("case %d: momentum %v -> %v", i, p0, p1)
				}
				if math.Abs(e0-e1) > 1e-9*(1+e0) {
					t.Fatalf("case %d: energy %v -> %v", i, e0, e1)
				}
			}
		})
	}
}

func TestResolve_SeparatingIsNoop(t *testing.T) {
	a := mustBody(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 0.5, 0}, 1, 1)
	b := mustBody(t, 1, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0.5, 0}, 1, 3)

	if Resolve(a, b) {
		t.Error("Resolve changed velocities of a separating pair")
	}
	if a.Vel != (mgl64.Vec3{-1, 0.5, 0}) || b.Vel != (mgl64.Vec3{1, 0.5, 0}) {
		t.Errorf("velocities changed: a=%v b=%v", a.Vel, b.Vel)
	}
}

func TestResolve_SecondCallIsNoop(t *testing.T) {
	a := mustBody(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 1, 0}, 1, 2)
	b := mustBody(t, 1, mgl64.Vec3{1.5, 1.3, 0}, mgl64.Vec3{-1, 0, 0}, 1, 1)

	if !Resolve(a, b) {
		t.Fatal("first Resolve should apply impulse")
	}
	va, vb := a.Vel, b.Vel
	if Resolve(a, b) {
		t.Error("second Resolve applied another impulse")
	}
	if a.Vel != va || b.Vel != vb {
		t.Error("second Resolve mutated velocities")
	}
}

func TestResolve_UnequalMassHeadOn(t *testing.T) {
	// 1D elastic formulas: v1' = (m1-m2)/(m1+m2) v1 + 2 m2/(m1+m2) v2.
	a := mustBody(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, 1, 3)
	b := mustBody(t, 1, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 0, 0}, 1, 1)

	Resolve(a, b)

	if !vecClose(a.Vel, mgl64.Vec3{1, 0, 0}, tol) {
		t.Errorf("a.Vel = %v, want [1 0 0]", a.Vel)
	}
	if !vecClose(b.Vel, mgl64.Vec3{3, 0, 0}, tol) {
		t.Errorf("b.Vel = %v, want [3 0 0]", b.Vel)
	}
}

func TestResolve_ZeroDistance(t *testing.T) {
	tests := []struct {
		name   string
		va, vb mgl64.Vec3
	}{
		{"approaching", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}},
		{"oblique", mgl64.Vec3{1, 2, 0}, mgl64.Vec3{0, -1, 0.5}},
		{"relative rest", mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 0}},
		{"both still", mgl64.Vec3{}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustBody(t, 0, mgl64.Vec3{5, 5, 0}, tt.va, 1, 1)
			b := mustBody(t, 1, mgl64.Vec3{5, 5, 0}, tt.vb, 1, 2)

			p0, e0 := momentum(a, b), energy(a, b)
			Resolve(a, b)

			if !a.IsValid() || !b.IsValid() {
				t.Fatalf("non-finite velocity: a=%v b=%v", a.Vel, b.Vel)
			}
			if !vecClose(p0, momentum(a, b), 1e-9) {
				t.Errorf("momentum changed: %v -> %v", p0, momentum(a, b))
			}
			if math.Abs(e0-energy(a, b)) > 1e-9 {
				t.Errorf("energy changed: %v -> %v", e0, energy(a, b))
			}
		})
	}
}

func TestReflect(t *testing.T) {
	box := Bounds{Width: 100, Height: 100}

	tests := []struct {
		name    string
		pos     mgl64.Vec3
		vel     mgl64.Vec3
		want    mgl64.Vec3
		flipped int
	}{
		{"left wall outward", mgl64.Vec3{0, 50, 0}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 1},
		{"left wall inward", mgl64.Vec3{0, 50, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, 0},
		{"right wall outward", mgl64.Vec3{99.5, 50, 0}, mgl64.Vec3{2, 1, 0}, mgl64.Vec3{-2, 1, 0}, 1},
		{"corner", mgl64.Vec3{100, 0, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{-1, 1, 0}, 2},
		{"resting on wall", mgl64.Vec3{0, 50, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 0},
		{"interior", mgl64.Vec3{50, 50, 0}, mgl64.Vec3{-3, 3, 0}, mgl64.Vec3{-3, 3, 0}, 0},
		{"z untouched in 2d", mgl64.Vec3{50, 50, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 0, -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBody(t, 0, tt.pos, tt.vel, 1, 1)
			if got := Reflect(b, box); got != tt.flipped {
				t.Errorf("Reflect flipped %d axes, want %d", got, tt.flipped)
			}
			if b.Vel != tt.want {
				t.Errorf("Vel = %v, want %v", b.Vel, tt.want)
			}
		})
	}
}

func TestReflect_NoRefireAfterFlip(t *testing.T) {
	box := Bounds{Width: 100, Height: 100}
	b := mustBody(t, 0, mgl64.Vec3{0, 50, 0}, mgl64.Vec3{-1, 0, 0}, 1, 1)

	if tw := WallTime(b, box); tw != 0 {
		t.Fatalf("WallTime = %v, want 0 for body on wall moving out", tw)
	}
	if Reflect(b, box) != 1 || b.Vel[0] != 1 {
		t.Fatalf("first Reflect: vel = %v", b.Vel)
	}
	if Reflect(b, box) != 0 || b.Vel[0] != 1 {
		t.Errorf("second Reflect re-flipped: vel = %v", b.Vel)
	}
	if tw := WallTime(b, box); tw != 100 {
		t.Errorf("WallTime after flip = %v, want 100", tw)
	}
}

func TestReflect_ThreeDimensional(t *testing.T) {
	box := Bounds{Width: 10, Height: 10, Depth: 10}
	b := mustBody(t, 0, mgl64.Vec3{5, 5, 10}, mgl64.Vec3{0, 0, 2}, 0.5, 1)

	if Reflect(b, box) != 1 || b.Vel[2] != -2 {
		t.Errorf("Vel = %v, want z flipped", b.Vel)
	}
}
