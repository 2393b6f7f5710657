package analysis

import (
	"strings"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

const shades = " .:-=+*#%@"

// Occupancy counts body centers over frames on a grid covering the box's
// X/Y extent.
type Occupancy struct {
	Width, Height int
	Counts        [][]int
	Max           int
}

func NewOccupancy(box kinetic.Bounds, frames []sim.Frame, width, height int) *Occupancy {
	o := &Occupancy{Width: width, Height: height, Counts: make([][]int, height)}
	for i := range o.Counts {
		o.Counts[i] = make([]int, width)
	}
	if width < 1 || height < 1 {
		return o
	}

	for _, f := range frames {
		for _, b := range f.Bodies {
			col := int(b.Pos[0] / box.Width * float64(width))
			row := int(b.Pos[1] / box.Height * float64(height))
			if row < 0 || row >= height || col < 0 || col >= width {
				continue
			}
			o.Counts[row][col]++
			o.Max = max(o.Max, o.Counts[row][col])
		}
	}
	return o
}

// ASCII shades each cell by its count relative to the busiest cell.
func (o *Occupancy) ASCII() string {
	var sb strings.Builder
	for _, row := range o.Counts {
		for _, c := range row {
			idx := 0
			if o.Max > 0 && c > 0 {
				idx = 1 + c*(len(shades)-2)/o.Max
			}
			sb.WriteByte(shades[idx])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
