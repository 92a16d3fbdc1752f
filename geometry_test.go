package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRectangleRejectsNonPositive(t *testing.T) {
	_, err := NewRectangle(0, 0, 0, 10)
	assert.True(t, errors.Is(err, ErrInvalidRegion))

	_, err = NewRectangle(0, 0, 10, 0)
	assert.True(t, errors.Is(err, ErrInvalidRegion))
}

func TestRectangleEdges(t *testing.T) {
	r := RectangleFromSize(100, 50)
	assert.Equal(t, 0, r.Left())
	assert.Equal(t, 100, r.Right())
	assert.Equal(t, 0, r.Top())
	assert.Equal(t, 50, r.Bottom())
	assert.True(t, r.Contains(50, 25))
	assert.False(t, r.Contains(150, 25))
}

func TestRectangleDivideWidthSumsExactly(t *testing.T) {
	r := RectangleFromSize(100, 10)
	rects := r.DivideWidth([]int{1, 1, 1})

	total := 0
	for _, sub := range rects {
		total += sub.Width
	}
	assert.Equal(t, 100, total)

	// contiguous: each sub-rectangle starts where the previous ends.
	for i := 1; i < len(rects); i++ {
		assert.Equal(t, rects[i-1].Right(), rects[i].X)
	}
}

func TestRectangleDivideHeightSumsExactly(t *testing.T) {
	r := RectangleFromSize(10, 100)
	rects := r.DivideHeight([]int{1, 2})

	total := 0
	for _, sub := range rects {
		total += sub.Height
	}
	assert.Equal(t, 100, total)
}

func TestRectangleDivideWidthAllZeroLengths(t *testing.T) {
	r := RectangleFromSize(100, 10)
	rects := r.DivideWidth([]int{0, 0})
	for _, sub := range rects {
		assert.Equal(t, 0, sub.Width)
	}
}

func TestRectangleLeftRightSideClampToWidth(t *testing.T) {
	r := RectangleFromSize(10, 5)
	left := r.LeftSide(100)
	assert.Equal(t, 10, left.Width)

	right := r.RightSide(4)
	assert.Equal(t, 4, right.Width)
	assert.Equal(t, r.Right()-4, right.X)
}
