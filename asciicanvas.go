package timeline

import (
	"sort"
	"strings"
)

// point is an (x,y) cell coordinate on an AsciiCanvas.
type point struct {
	x, y int
}

// AsciiCanvas is a sparse character grid, used as a text diagnostic
// for the timeline layout.
type AsciiCanvas struct {
	chars map[point]byte
}

// NewAsciiCanvas returns an empty canvas.
func NewAsciiCanvas() *AsciiCanvas {
	return &AsciiCanvas{chars: map[point]byte{}}
}

// MaxX returns the largest x coordinate with a character, or -1 if empty.
func (c *AsciiCanvas) MaxX() int {
	maxX := -1
	for p := range c.chars {
		if p.x > maxX {
			maxX = p.x
		}
	}
	return maxX
}

// MaxY returns the largest y coordinate with a character, or -1 if empty.
func (c *AsciiCanvas) MaxY() int {
	maxY := -1
	for p := range c.chars {
		if p.y > maxY {
			maxY = p.y
		}
	}
	return maxY
}

// AddText writes text starting at (x,y), advancing x one cell per byte.
func (c *AsciiCanvas) AddText(text string, x, y int) {
	for i := 0; i < len(text); i++ {
		c.AddChar(x+i, y, text[i])
	}
}

// AddCanvas copies every cell of other onto c, offset by (dx,dy).
func (c *AsciiCanvas) AddCanvas(other *AsciiCanvas, dx, dy int) {
	for p, ch := range other.chars {
		c.AddChar(p.x+dx, p.y+dy, ch)
	}
}

// AddChar sets a single cell. x and y must be non-negative.
func (c *AsciiCanvas) AddChar(x, y int, ch byte) {
	if x < 0 || y < 0 {
		panic("ascii canvas: position is outside grid")
	}
	c.chars[point{x, y}] = ch
}

// String renders the canvas one line per row, filling unset cells
// before a row's last character with spaces. Rows are not padded on
// the right to a common width.
func (c *AsciiCanvas) String() string {
	if len(c.chars) == 0 {
		return ""
	}
	maxY := c.MaxY()
	lines := make([]string, 0, maxY+1)
	for y := 0; y <= maxY; y++ {
		var xs []int
		rowChars := map[int]byte{}
		for p, ch := range c.chars {
			if p.y == y {
				xs = append(xs, p.x)
				rowChars[p.x] = ch
			}
		}
		if len(xs) == 0 {
			lines = append(lines, "")
			continue
		}
		sort.Ints(xs)
		maxX := xs[len(xs)-1]
		var b strings.Builder
		for x := 0; x <= maxX; x++ {
			if ch, ok := rowChars[x]; ok {
				b.WriteByte(ch)
			} else {
				b.WriteByte(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
