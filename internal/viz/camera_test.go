package viz

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
)

var (
	box2D = kinetic.Bounds{Width: 100, Height: 100}
	box3D = kinetic.Bounds{Width: 100, Height: 100, Depth: 100}
)

func TestCamera_View(t *testing.T) {
	p := mgl64.Vec3{1, 2, 3}
	if got := NewCamera(0, 0).View(p); !got.ApproxEqual(p) {
		t.Errorf("identity view = %v", got)
	}

	cam := NewCamera(90, 0)
	got := cam.View(mgl64.Vec3{1, 0, 0})
	if got.Sub(mgl64.Vec3{0, 0, -1}).Len() > 1e-12 {
		t.Errorf("yaw 90 view = %v", got)
	}
	if math.Abs(cam.View(p).Len()-p.Len()) > 1e-12 {
		t.Error("view does not preserve length")
	}
}

func TestCamera_OrbitAndZoom(t *testing.T) {
	cam := NewCamera(0, 0)
	cam.Orbit(0, 10)
	if cam.Pitch != mgl64.DegToRad(89) {
		t.Errorf("Pitch = %v, want clamped to 89 degrees", cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch != -mgl64.DegToRad(89) {
		t.Errorf("Pitch = %v, want clamped to -89 degrees", cam.Pitch)
	}

	cam.ZoomIn()
	if cam.Zoom <= 1 {
		t.Errorf("Zoom = %v after ZoomIn", cam.Zoom)
	}
	for i := 0; i < 50; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom < 0.1 {
		t.Errorf("Zoom = %v, want floor of 0.1", cam.Zoom)
	}
}

func TestProjector_Planar(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 50}
	p := NewProjector(box, nil, 201, 101)

	tests := []struct {
		pt   mgl64.Vec3
		x, y int
	}{
		{mgl64.Vec3{0, 0, 0}, 0, 0},
		{mgl64.Vec3{100, 50, 0}, 200, 100},
		{mgl64.Vec3{50, 25, 0}, 100, 50},
		{mgl64.Vec3{25, 40, 0}, 50, 80},
	}
	for _, tt := range tests {
		x, y, depth, scale := p.Project(tt.pt)
		if x != tt.x || y != tt.y {
			t.Errorf("Project(%v) = (%d, %d), want (%d, %d)", tt.pt, x, y, tt.x, tt.y)
		}
		if depth != 0 || scale != 2 {
			t.Errorf("depth, scale = %v, %v", depth, scale)
		}
	}
	if n := p.Flush(0); n != 0 {
		t.Errorf("clamped %d in-range points", n)
	}
}

func TestProjector_KeepsAspect(t *testing.T) {
	p := NewProjector(box2D, nil, 201, 101)
	x, y, _, _ := p.Project(mgl64.Vec3{0, 0, 0})
	if x != 50 || y != 0 {
		t.Errorf("origin at (%d, %d), want (50, 0)", x, y)
	}
}

func TestProjector_Clamps(t *testing.T) {
	p := NewProjector(box2D, nil, 101, 101)

	x, y, _, _ := p.Project(mgl64.Vec3{150, -10, 0})
	if x != 100 || y != 0 {
		t.Errorf("clamped to (%d, %d), want (100, 0)", x, y)
	}
	x, _, _, _ = p.Project(mgl64.Vec3{math.NaN(), 10, 0})
	if x != 0 {
		t.Errorf("NaN mapped to %d", x)
	}

	if n := p.Flush(7); n != 2 {
		t.Errorf("Flush = %d, want 2", n)
	}
	if n := p.Flush(8); n != 0 {
		t.Errorf("second Flush = %d, want 0", n)
	}
}

func TestProjector_Perspective(t *testing.T) {
	p := NewProjector(box3D, NewCamera(0, 0), 200, 200)

	x, y, depth, center := p.Project(mgl64.Vec3{50, 50, 50})
	if x != 100 || y != 100 || depth != 0 {
		t.Errorf("center projects to (%d, %d) depth %v", x, y, depth)
	}

	_, _, nearDepth, near := p.Project(mgl64.Vec3{50, 50, 100})
	_, _, farDepth, far := p.Project(mgl64.Vec3{50, 50, 0})
	if !(nearDepth > 0 && farDepth < 0) {
		t.Errorf("depths = %v, %v", nearDepth, farDepth)
	}
	if !(near > center && center > far) {
		t.Errorf("scales near/center/far = %v/%v/%v", near, center, far)
	}
}

func TestBoxEdges(t *testing.T) {
	if n := len(BoxEdges(box2D)); n != 4 {
		t.Errorf("2D edges = %d", n)
	}
	edges := BoxEdges(box3D)
	if len(edges) != 12 {
		t.Fatalf("3D edges = %d", len(edges))
	}
	for _, e := range edges {
		if l := e[1].Sub(e[0]).Len(); l != 100 {
			t.Errorf("edge %v has length %v", e, l)
		}
	}
}
