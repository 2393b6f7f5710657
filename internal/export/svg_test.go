package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.SetTone(0, 0, viz.ToneBody)
	c.SetTone(7, 7, viz.ToneHighlight)

	svg := CanvasToSVG(c, viz.ThemeClassic, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if !strings.Contains(svg, string(viz.ThemeClassic.Highlight)) {
		t.Error("highlighted dot does not use the highlight color")
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}

	if CanvasToSVG(nil, viz.ThemeClassic, 1) != "" {
		t.Error("nil canvas should produce nothing")
	}
}

func TestFrameToSVG(t *testing.T) {
	box := kinetic.Bounds{Width: 100, Height: 100}
	f := sim.Frame{
		Step: 3,
		Time: 1.5,
		Bodies: []sim.BodyState{
			{ID: 0, Pos: mgl64.Vec3{20, 50, 0}, Radius: 5, Mass: 1, Highlighted: true},
			{ID: 1, Pos: mgl64.Vec3{80, 50, 0}, Radius: 5, Mass: 1},
		},
	}

	svg := FrameToSVG(f, box, viz.ThemeClassic, 201, 201)
	if got := strings.Count(svg, "<line"); got != 4 {
		t.Errorf("lines = %d, want 4 box edges", got)
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if !strings.Contains(svg, `cx="40" cy="100" r="10.0" fill="`+string(viz.ThemeClassic.Highlight)) {
		t.Errorf("body 0 not drawn highlighted at the expected place:\n%s", svg)
	}
	if !strings.Contains(svg, "step=3") {
		t.Error("missing caption")
	}

	cube := kinetic.Bounds{Width: 100, Height: 100, Depth: 100}
	f.Bodies[0].Pos[2], f.Bodies[1].Pos[2] = 50, 50
	if got := strings.Count(FrameToSVG(f, cube, viz.ThemeOcean, 200, 200), "<line"); got != 12 {
		t.Errorf("3D lines = %d, want 12", got)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	var frames []sim.Frame
	for i := 0; i < 5; i++ {
		frames = append(frames, sim.Frame{Bodies: []sim.BodyState{{Pos: mgl64.Vec3{float64(i * 10), float64(i), 0}}}})
	}

	svg := TrajectoryToSVG(frames, 0, 100, 100, "#ffffff")
	if got := strings.Count(svg, " L"); got != 4 {
		t.Errorf("segments = %d, want 4", got)
	}
	if TrajectoryToSVG(frames[:1], 0, 100, 100, "#fff") != "" {
		t.Error("a single point should produce nothing")
	}
	if TrajectoryToSVG(frames, 3, 100, 100, "#fff") != "" {
		t.Error("unknown body should produce nothing")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")
	if err := WriteSVG(path, "<svg/>"); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("read back %q, %v", data, err)
	}
	if err := WriteSVG(path, ""); err == nil {
		t.Error("empty document should fail")
	}
}
