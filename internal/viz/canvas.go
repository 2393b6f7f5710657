package viz

import "strings"

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Tone picks the color of a cell. When dots of different tones share a cell
// the highest tone wins, so highlights stay visible over walls and trails.
type Tone uint8

const (
	ToneNone Tone = iota
	ToneWall
	ToneTrail
	ToneBody
	ToneHighlight
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tones         [][]Tone
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tones:  make([][]Tone, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tones[i] = make([]Tone, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel (x, y) with ToneBody.
func (c *Canvas) Set(x, y int) { c.SetTone(x, y, ToneBody) }

// SetTone lights the sub-pixel (x, y). The canvas size in sub-pixels is
// (Width*2) x (Height*4); anything outside is ignored.
func (c *Canvas) SetTone(x, y int, tone Tone) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if tone > c.Tones[row][col] {
		c.Tones[row][col] = tone
	}
}

// Lit reports whether the sub-pixel (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tones[i][j] = ToneNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, tone Tone) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetTone(x0, y0, tone)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Disk fills a circle of radius r sub-pixels. Radii below one still light
// the center.
func (c *Canvas) Disk(cx, cy, r int, tone Tone) {
	if r < 1 {
		c.SetTone(cx, cy, tone)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetTone(cx+dx, cy+dy, tone)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each run of equally toned cells with the theme.
func (c *Canvas) Render(theme Theme) string {
	styles := theme.toneStyles()

	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Tones[i][j] == c.Tones[i][start] {
				continue
			}
			b.WriteString(styles[c.Tones[i][start]].Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
