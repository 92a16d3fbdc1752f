package timeline

import (
	"fmt"
	"sort"
)

// Region is a half-open interval [Start,End) on the timeline's frame axis.
type Region struct {
	Start int
	End   int
}

// NewRegion builds a Region, failing if it would be empty or inverted.
func NewRegion(start, end int) (Region, error) {
	if start >= end {
		return Region{}, fmt.Errorf("%w: start (%d) >= end (%d)", ErrInvalidRegion, start, end)
	}
	return Region{Start: start, End: end}, nil
}

// MustRegion is NewRegion for call sites that already know the bounds are
// sane (literals, derived values with an established invariant).
func MustRegion(start, end int) Region {
	r, err := NewRegion(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Length is End-Start.
func (r Region) Length() int {
	return r.End - r.Start
}

// Overlap returns the intersection of r and other, and whether one exists.
func (r Region) Overlap(other Region) (Region, bool) {
	if other.End <= r.Start || other.Start >= r.End {
		return Region{}, false
	}
	return Region{
		Start: max(r.Start, other.Start),
		End:   min(r.End, other.End),
	}, true
}

// Union merges r and other into one region if they overlap or are
// adjacent, otherwise it returns both regions unchanged, r first.
func (r Region) Union(other Region) []Region {
	if other.End < r.Start || other.Start > r.End {
		return []Region{r, other}
	}
	return []Region{{
		Start: min(r.Start, other.Start),
		End:   max(r.End, other.End),
	}}
}

// Groups returns the set of fixed-size bucket indices that r touches.
// A region of length 1 at position 0 with size 1 yields {0}; [0,5) with
// size 1 yields {0..4}; [0,6) with size 2 yields {0,1,2}.
func (r Region) Groups(size int) map[int]struct{} {
	groups := make(map[int]struct{})
	for i := r.Start; i < r.End; i += size {
		groups[i/size] = struct{}{}
	}
	// ensure the bucket containing the last frame is always included,
	// even when size doesn't evenly divide the stride above.
	groups[(r.End-1)/size] = struct{}{}
	return groups
}

func (r Region) String() string {
	return fmt.Sprintf("Region(start=%d, end=%d)", r.Start, r.End)
}

// Scale multiplies both endpoints by a rational factor, truncating to
// integers the way the original timewarp math does.
func (r Region) Scale(num, den int) Region {
	return Region{
		Start: r.Start * num / den,
		End:   r.End * num / den,
	}
}

// ResizeTo returns a region with the same start and the given length.
func (r Region) ResizeTo(length int) Region {
	return Region{Start: r.Start, End: r.Start + length}
}

// ShortenLeft drops amount frames from the start.
func (r Region) ShortenLeft(amount int) Region {
	return Region{Start: r.Start + amount, End: r.End}
}

// MoveEnd shifts only the end by amount.
func (r Region) MoveEnd(amount int) Region {
	return Region{Start: r.Start, End: r.End + amount}
}

// UnionRegions accumulates regions added in arbitrary order and, on
// Merge, yields the disjoint cover in ascending start order. Equal
// starts keep insertion order before the sort (stable sort required).
type UnionRegions struct {
	regions []Region
}

// Add appends a region to the accumulator.
func (u *UnionRegions) Add(r Region) {
	u.regions = append(u.regions, r)
}

// Merge returns the sorted, pairwise-merged disjoint regions.
func (u *UnionRegions) Merge() []Region {
	rest := make([]Region, len(u.regions))
	copy(rest, u.regions)
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Start < rest[j].Start
	})
	var merged []Region
	for _, r := range rest {
		if len(merged) == 0 {
			merged = append(merged, r)
			continue
		}
		last := merged[len(merged)-1]
		combined := last.Union(r)
		if len(combined) == 1 {
			merged[len(merged)-1] = combined[0]
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
