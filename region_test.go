package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegionRejectsInverted(t *testing.T) {
	_, err := NewRegion(5, 5)
	assert.True(t, errors.Is(err, ErrInvalidRegion))

	_, err = NewRegion(5, 3)
	assert.True(t, errors.Is(err, ErrInvalidRegion))
}

func TestRegionOverlap(t *testing.T) {
	a := MustRegion(0, 10)
	b := MustRegion(5, 15)
	overlap, ok := a.Overlap(b)
	assert.True(t, ok)
	assert.Equal(t, MustRegion(5, 10), overlap)

	c := MustRegion(10, 20)
	_, ok = a.Overlap(c)
	assert.False(t, ok)
}

func TestRegionUnion(t *testing.T) {
	a := MustRegion(0, 5)
	b := MustRegion(5, 10)
	assert.Equal(t, []Region{MustRegion(0, 10)}, a.Union(b))

	c := MustRegion(20, 30)
	assert.Equal(t, []Region{a, c}, a.Union(c))
}

func TestRegionGroups(t *testing.T) {
	r := MustRegion(0, 5)
	groups := r.Groups(1)
	for i := 0; i < 5; i++ {
		_, ok := groups[i]
		assert.True(t, ok, "bucket %d", i)
	}

	r2 := MustRegion(0, 6)
	groups2 := r2.Groups(2)
	assert.Equal(t, map[int]struct{}{0: {}, 1: {}, 2: {}}, groups2)
}

func TestUnionRegionsMergesOverlappingAndAdjacent(t *testing.T) {
	var u UnionRegions
	u.Add(MustRegion(10, 20))
	u.Add(MustRegion(0, 5))
	u.Add(MustRegion(5, 12))

	merged := u.Merge()
	assert.Equal(t, []Region{MustRegion(0, 20)}, merged)
}

func TestUnionRegionsKeepsDisjointRegionsSeparate(t *testing.T) {
	var u UnionRegions
	u.Add(MustRegion(0, 5))
	u.Add(MustRegion(100, 105))

	merged := u.Merge()
	assert.Equal(t, []Region{MustRegion(0, 5), MustRegion(100, 105)}, merged)
}
