package export

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG, coloring each dot with the
// theme color of its cell.
func CanvasToSVG(canvas *viz.Canvas, theme viz.Theme, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.PixelSize()
	var sb strings.Builder
	header(&sb, float64(w)*scale, float64(h)*scale)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			fill := theme.Hex(canvas.Tones[y/4][x/2])
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FrameToSVG draws the box outline and the bodies of f as vector shapes.
// Bodies in the frame's event use the theme's highlight color.
func FrameToSVG(f sim.Frame, box kinetic.Bounds, theme viz.Theme, width, height int) string {
	proj := viz.NewProjector(box, nil, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1">
`, theme.Hex(viz.ToneWall)))
	for _, e := range viz.BoxEdges(box) {
		x0, y0, _, _ := proj.Project(e[0])
		x1, y1, _, _ := proj.Project(e[1])
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d"/>
`, x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")

	type circle struct {
		x, y  int
		r     float64
		depth float64
		fill  string
	}
	circles := make([]circle, len(f.Bodies))
	for i, b := range f.Bodies {
		x, y, depth, scale := proj.Project(b.Pos)
		tone := viz.ToneBody
		if b.Highlighted {
			tone = viz.ToneHighlight
		}
		circles[i] = circle{x: x, y: y, r: b.Radius * scale, depth: depth, fill: theme.Hex(tone)}
	}
	sort.SliceStable(circles, func(i, j int) bool { return circles[i].depth < circles[j].depth })
	for _, c := range circles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, c.x, c.y, c.r, c.fill))
	}
	proj.Flush(f.Step)

	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">t=%.3f step=%d</text>
`, string(theme.Text), f.Time, f.Step))
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the X/Y path of body id across frames, fitted to the
// image with some padding.
func TrajectoryToSVG(frames []sim.Frame, id, width, height int, strokeColor string) string {
	var points []mgl64.Vec3
	for _, f := range frames {
		if id >= 0 && id < len(f.Bodies) {
			points = append(points, f.Bodies[id].Pos)
		}
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X(), points[0].X()
	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	// Box coordinates grow downward, like SVG.
	for i, p := range points {
		x := (p.X() - minX) / rangeX * float64(width)
		y := (p.Y() - minY) / rangeY * float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteSVG writes an SVG document to path.
func WriteSVG(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to draw for %s", path)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
