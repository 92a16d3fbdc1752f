package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitMapPerformPicksTopmost(t *testing.T) {
	h := NewHitMap()
	h.Add(RectangleFromSize(100, 100), Action{Kind: ActionMoveCut, CutID: "bottom"})
	h.Add(Rectangle{X: 10, Y: 10, Width: 20, Height: 20}, Action{Kind: ActionResizeLeft, CutID: "top"})

	action := h.Perform(15, 15, func(Action) bool { return true })
	assert.Equal(t, "top", action.CutID)
	assert.Equal(t, ActionResizeLeft, action.Kind)
}

func TestHitMapPerformReturnsNoActionOutsideAnyRect(t *testing.T) {
	h := NewHitMap()
	h.Add(RectangleFromSize(10, 10), Action{Kind: ActionMoveCut, CutID: "a"})

	action := h.Perform(500, 500, func(Action) bool { return true })
	assert.True(t, action.IsNoAction())
}

func TestHitMapPerformSkipsUnconsumedAndFallsThrough(t *testing.T) {
	h := NewHitMap()
	h.Add(RectangleFromSize(100, 100), Action{Kind: ActionMoveCut, CutID: "bottom"})
	h.Add(RectangleFromSize(100, 100), Action{Kind: ActionResizeLeft, CutID: "top"})

	var seen []string
	action := h.Perform(5, 5, func(a Action) bool {
		seen = append(seen, a.CutID)
		return a.CutID == "bottom"
	})
	assert.Equal(t, []string{"top", "bottom"}, seen)
	assert.Equal(t, "bottom", action.CutID)
}

func TestHitMapClear(t *testing.T) {
	h := NewHitMap()
	h.Add(RectangleFromSize(10, 10), Action{Kind: ActionMoveCut, CutID: "a"})
	h.Clear()

	action := h.Perform(5, 5, func(Action) bool { return true })
	assert.True(t, action.IsNoAction())
}
