package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutRegionAndOverlap(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, err := file.CreateCut(0, 10)
	assert.NoError(t, err)
	cut.Position = 5

	assert.Equal(t, 5, cut.Start())
	assert.Equal(t, 15, cut.End())
	assert.Equal(t, MustRegion(5, 15), cut.Region())

	other, _ := file.CreateCut(0, 10)
	other.Position = 12
	overlap, ok := cut.Overlap(other)
	assert.True(t, ok)
	assert.Equal(t, MustRegion(12, 15), overlap)
}

func TestCutResizeRightAdjustsSpeed(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	resized := cut.ResizeRight(10)
	assert.Equal(t, 20, resized.InOut.Length())
	assert.Equal(t, 0.5, resized.Speed)
}

func TestCutResizeRightIgnoresCollapse(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	resized := cut.ResizeRight(-20)
	assert.Equal(t, cut, resized)
}

func TestCutMoveLeftClampsToZero(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(2, 10)
	cut.Position = 1

	moved := cut.MoveLeft(-10)
	assert.Equal(t, 1, moved.InOut.Start)
	assert.Equal(t, 0, moved.Position)
}

func TestCutSplit(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	a, b, err := cut.Split(4)
	assert.NoError(t, err)
	assert.Equal(t, 0, a.Start())
	assert.Equal(t, 4, a.End())
	assert.Equal(t, 4, b.Start())
	assert.Equal(t, 10, b.End())
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, cut.ID, a.ID)
}

func TestCutSplitRejectsOutOfRange(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	_, _, err := cut.Split(0)
	assert.True(t, errors.Is(err, ErrInvalidCut))

	_, _, err = cut.Split(10)
	assert.True(t, errors.Is(err, ErrInvalidCut))
}

func TestCutCreateCutNestedProjection(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	whole, ok := cut.CreateCut(MustRegion(0, 10))
	assert.True(t, ok)
	assert.Equal(t, cut, whole)

	partial, ok := cut.CreateCut(MustRegion(3, 8))
	assert.True(t, ok)
	assert.Nil(t, partial.SourceRef)
	assert.NotNil(t, partial.CutRef)
	assert.Equal(t, 3, partial.Position)
	assert.Equal(t, cut.ID, partial.GetSourceCut().ID)

	_, ok = cut.CreateCut(MustRegion(100, 110))
	assert.False(t, ok)
}

func TestCutMixStrategyAndVolume(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	assert.Equal(t, MixUnder, cut.MixStrategy)
	withOver := cut.WithMixStrategy(MixOver)
	assert.Equal(t, MixOver, withOver.MixStrategy)

	withVolume := cut.WithVolume(-5)
	assert.Equal(t, -5, withVolume.Volume)
}
