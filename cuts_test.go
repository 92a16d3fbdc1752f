package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutsAddDuplicateRejected(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)

	cuts, err := FromCuts(cut)
	assert.NoError(t, err)

	_, err = cuts.Add(cut)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestCutsRippleDeleteShiftsLaterCuts(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)

	a, _ := file.CreateCut(0, 10)
	b, _ := file.CreateCut(0, 10)
	b.Position = 10
	c, _ := file.CreateCut(0, 10)
	c.Position = 20

	cuts, err := FromCuts(a, b, c)
	assert.NoError(t, err)

	cuts, err = cuts.RippleDelete(b.ID)
	assert.NoError(t, err)

	_, ok := cuts.Get(b.ID)
	assert.False(t, ok)

	remaining, _ := cuts.Get(c.ID)
	assert.Equal(t, 10, remaining.Start())
}

func TestCutsSplit(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	cut, _ := file.CreateCut(0, 10)
	cuts, _ := FromCuts(cut)

	cuts, err := cuts.Split(cut.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 2, cuts.Len())

	_, ok := cuts.Get(cut.ID)
	assert.False(t, ok)
}

func TestCutsYieldCutsInPeriod(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 1000)
	a, _ := file.CreateCut(0, 10)
	b, _ := file.CreateCut(0, 10)
	b.Position = 500

	cuts, _ := FromCuts(a, b)

	inPeriod := cuts.YieldCutsInPeriod(MustRegion(0, 10))
	assert.Len(t, inPeriod, 1)
	assert.Equal(t, a.ID, inPeriod[0].ID)
}

func TestCutsSplitIntoSectionsSequentialNoOverlap(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	a, _ := file.CreateCut(0, 5)
	b, _ := file.CreateCut(0, 5)
	b.Position = 5

	cuts, err := FromCuts(a, b)
	assert.NoError(t, err)

	sections, err := cuts.SplitIntoSections()
	assert.NoError(t, err)
	assert.Equal(t, 10, sections.Length())
	assert.Len(t, sections.All(), 1)
	assert.NotNil(t, sections.All()[0].Playlist)
}

func TestCutsSplitIntoSectionsOverlapProducesMixSection(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	a, _ := file.CreateCut(0, 10)
	b, _ := file.CreateCut(0, 10)
	b.Position = 5

	cuts, err := FromCuts(a, b)
	assert.NoError(t, err)

	sections, err := cuts.SplitIntoSections()
	assert.NoError(t, err)

	var sawMix bool
	for _, section := range sections.All() {
		if section.Mix != nil {
			sawMix = true
			assert.Len(t, section.Mix.Playlists, 2)
		}
	}
	assert.True(t, sawMix)
}

func TestCutsSplitIntoSectionsLeavesGapAsSpace(t *testing.T) {
	file := NewFileSource("/clips/a.wav", 100)
	a, _ := file.CreateCut(0, 5)
	b, _ := file.CreateCut(0, 5)
	b.Position = 20

	cuts, err := FromCuts(a, b)
	assert.NoError(t, err)

	sections, err := cuts.SplitIntoSections()
	assert.NoError(t, err)
	assert.Equal(t, 25, sections.Length())

	playlist := sections.All()[0].Playlist
	assert.NotNil(t, playlist)
	var sawSpace bool
	for _, part := range playlist.Parts {
		if part.Space != nil {
			sawSpace = true
		}
	}
	assert.True(t, sawSpace)
}

func TestCutsGroupSizeBoundary(t *testing.T) {
	cuts := NewCutsWithGroupSize(2)
	file := NewFileSource("/clips/a.wav", 100)
	a, _ := file.CreateCut(0, 1)
	b, _ := file.CreateCut(0, 1)
	b.Position = 5

	var err error
	cuts, err = cuts.Add(a)
	assert.NoError(t, err)
	cuts, err = cuts.Add(b)
	assert.NoError(t, err)

	assert.Len(t, cuts.YieldCutsInPeriod(MustRegion(0, 1)), 1)
	assert.Len(t, cuts.YieldCutsInPeriod(MustRegion(5, 6)), 1)
}
