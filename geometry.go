package timeline

import "fmt"

// Rectangle is an axis-aligned box in pixel space, used both for
// drawing and for the HitMap's mouse-picking geometry.
type Rectangle struct {
	X, Y, Width, Height int
}

// NewRectangle validates Width/Height > 0.
func NewRectangle(x, y, width, height int) (Rectangle, error) {
	if width <= 0 {
		return Rectangle{}, fmt.Errorf("%w: rectangle width must be > 0", ErrInvalidRegion)
	}
	if height <= 0 {
		return Rectangle{}, fmt.Errorf("%w: rectangle height must be > 0", ErrInvalidRegion)
	}
	return Rectangle{X: x, Y: y, Width: width, Height: height}, nil
}

// RectangleFromSize builds a Rectangle at the origin.
func RectangleFromSize(width, height int) Rectangle {
	r, err := NewRectangle(0, 0, width, height)
	if err != nil {
		panic(err)
	}
	return r
}

// Left, Right, Top, Bottom are the rectangle's edge coordinates.
func (r Rectangle) Left() int   { return r.X }
func (r Rectangle) Right() int  { return r.X + r.Width }
func (r Rectangle) Top() int    { return r.Y }
func (r Rectangle) Bottom() int { return r.Y + r.Height }

// Contains reports whether (x,y) falls within the rectangle.
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Move translates the rectangle.
func (r Rectangle) Move(dx, dy int) Rectangle {
	return Rectangle{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// LeftSide returns a thin strip of the rectangle's left edge, used for
// the resize-left drag handle.
func (r Rectangle) LeftSide(width int) Rectangle {
	if width > r.Width {
		width = r.Width
	}
	return Rectangle{X: r.X, Y: r.Y, Width: width, Height: r.Height}
}

// RightSide is the LeftSide analogue for the trailing edge.
func (r Rectangle) RightSide(width int) Rectangle {
	if width > r.Width {
		width = r.Width
	}
	return Rectangle{X: r.Right() - width, Y: r.Y, Width: width, Height: r.Height}
}

// Sized carries an item's length. DivideWidth/DivideHeight take plain
// []int lengths and do not use it.
type Sized struct {
	Length int
}

// DivideWidth distributes r.Width proportionally across lengths using
// a cumulative rounding scheme, so the sum of returned widths equals
// r.Width exactly — no gaps, no overshoot. The returned
// slice has one Rectangle per input length, in order.
func (r Rectangle) DivideWidth(lengths []int) []Rectangle {
	return divide(lengths, func(offset, size int) Rectangle {
		return Rectangle{X: r.X + offset, Y: r.Y, Width: size, Height: r.Height}
	}, r.Width)
}

// DivideHeight is the DivideWidth analogue along the vertical axis.
func (r Rectangle) DivideHeight(lengths []int) []Rectangle {
	return divide(lengths, func(offset, size int) Rectangle {
		return Rectangle{X: r.X, Y: r.Y + offset, Width: r.Width, Height: size}
	}, r.Height)
}

// divide implements the cumulative-rounding subdivision: the ith
// boundary is total * cumulative_length_i / total_length in integer
// (truncating) division, so rounding error never accumulates and the final boundary lands
// exactly on `total`.
func divide(lengths []int, build func(offset, size int) Rectangle, total int) []Rectangle {
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	out := make([]Rectangle, len(lengths))
	if sum == 0 {
		return out
	}
	cumulative := 0
	prevBoundary := 0
	for i, l := range lengths {
		cumulative += l
		boundary := cumulative * total / sum
		out[i] = build(prevBoundary, boundary-prevBoundary)
		prevBoundary = boundary
	}
	return out
}
