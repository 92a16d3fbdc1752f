package timeline

import (
	"fmt"
	"sort"
)

// DefaultGroupSize is the region-bucket tuning knob: not a correctness
// parameter, overridable per Cuts (mainly by tests that want to
// exercise bucket boundaries with small numbers).
const DefaultGroupSize = 100

// Cuts is an insertion-ordered id -> Cut map plus a region-bucket
// index (bucket number -> cut ids) that answers "which cuts touch
// region R" without scanning every cut.
type Cuts struct {
	order     []string
	byID      map[string]Cut
	buckets   map[int][]string
	groupSize int
}

// NewCuts returns an empty Cuts collection using DefaultGroupSize.
func NewCuts() Cuts {
	return Cuts{
		byID:      map[string]Cut{},
		buckets:   map[int][]string{},
		groupSize: DefaultGroupSize,
	}
}

// NewCutsWithGroupSize is NewCuts with an explicit bucket size, used
// by tests that want to exercise bucket boundaries cheaply.
func NewCutsWithGroupSize(groupSize int) Cuts {
	c := NewCuts()
	c.groupSize = groupSize
	return c
}

// FromCuts builds a Cuts collection from a list of cuts, in order.
func FromCuts(cuts ...Cut) (Cuts, error) {
	result := NewCuts()
	var err error
	for _, c := range cuts {
		result, err = result.Add(c)
		if err != nil {
			return Cuts{}, err
		}
	}
	return result, nil
}

// Get looks up a cut by id.
func (c Cuts) Get(id string) (Cut, bool) {
	cut, ok := c.byID[id]
	return cut, ok
}

// Len returns the number of cuts.
func (c Cuts) Len() int {
	return len(c.order)
}

// All returns the cuts in insertion order.
func (c Cuts) All() []Cut {
	out := make([]Cut, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Add inserts cut, failing if its id is already present.
func (c Cuts) Add(cut Cut) (Cuts, error) {
	if _, ok := c.byID[cut.ID]; ok {
		return c, fmt.Errorf("%w: cut %s", ErrDuplicateID, cut.ID)
	}
	next := c.clone()
	next.order = append(next.order, cut.ID)
	next.byID[cut.ID] = cut
	next.addToBuckets(cut)
	return next, nil
}

// Remove deletes a cut from the id map and every bucket it occupies.
func (c Cuts) Remove(cutID string) (Cuts, error) {
	old, ok := c.byID[cutID]
	if !ok {
		return c, fmt.Errorf("%w: cut %s", ErrUnknownID, cutID)
	}
	next := c.clone()
	delete(next.byID, cutID)
	next.order = removeString(next.order, cutID)
	next.removeFromBuckets(old)
	return next, nil
}

// Modify applies fn to the current cut with the given id and stores
// the result, updating the bucket index by the set difference between
// the old and new region's buckets.
func (c Cuts) Modify(cutID string, fn func(Cut) Cut) (Cuts, error) {
	old, ok := c.byID[cutID]
	if !ok {
		return c, fmt.Errorf("%w: cut %s", ErrUnknownID, cutID)
	}
	updated := fn(old)
	next := c.clone()
	newGroups := updated.RegionGroups(c.groupSize)
	for g := range old.RegionGroups(c.groupSize) {
		if _, kept := newGroups[g]; !kept {
			next.buckets[g] = removeString(next.buckets[g], cutID)
		}
	}
	next.byID[cutID] = updated
	next.addToBuckets(updated)
	return next, nil
}

// RippleDelete removes cutID and shifts every cut that starts after it
// left by just enough to close the gap, preserving relative order.
func (c Cuts) RippleDelete(cutID string) (Cuts, error) {
	deleted, ok := c.byID[cutID]
	if !ok {
		return c, fmt.Errorf("%w: cut %s", ErrUnknownID, cutID)
	}
	next, err := c.Remove(cutID)
	if err != nil {
		return c, err
	}
	var ids []string
	minDiff := 0
	first := true
	for _, cut := range next.All() {
		if cut.Start() > deleted.Start() {
			diff := cut.Start() - deleted.Start()
			ids = append(ids, cut.ID)
			if first || diff < minDiff {
				minDiff = diff
				first = false
			}
		}
	}
	if len(ids) == 0 {
		return next, nil
	}
	delta := -minDiff
	for _, id := range ids {
		next, err = next.Modify(id, func(cut Cut) Cut { return cut.Move(delta) })
		if err != nil {
			return c, err
		}
	}
	return next, nil
}

// Split replaces the cut at cutID with the two halves produced by
// Cut.Split(at).
func (c Cuts) Split(cutID string, at int) (Cuts, error) {
	cut, ok := c.byID[cutID]
	if !ok {
		return c, fmt.Errorf("%w: cut %s", ErrUnknownID, cutID)
	}
	a, b, err := cut.Split(at)
	if err != nil {
		return c, err
	}
	next, err := c.Remove(cutID)
	if err != nil {
		return c, err
	}
	next, err = next.Add(a)
	if err != nil {
		return c, err
	}
	return next.Add(b)
}

// YieldCutsInPeriod enumerates, deduplicated, every cut whose region
// touches any bucket that period touches. This is the fast path for
// overlap queries.
func (c Cuts) YieldCutsInPeriod(period Region) []Cut {
	yielded := map[string]struct{}{}
	var out []Cut
	groups := sortedGroupKeys(period.Groups(c.groupSize))
	for _, g := range groups {
		for _, id := range c.buckets[g] {
			if _, ok := yielded[id]; ok {
				continue
			}
			yielded[id] = struct{}{}
			out = append(out, c.byID[id])
		}
	}
	return out
}

// CreateCut projects every cut touching period onto that window,
// returning a fresh Cuts collection of the (possibly nested) results.
func (c Cuts) CreateCut(period Region) (Cuts, error) {
	result := NewCuts()
	var err error
	for _, cut := range c.YieldCutsInPeriod(period) {
		sub, ok := cut.CreateCut(period)
		if !ok {
			continue
		}
		result, err = result.Add(sub)
		if err != nil {
			return Cuts{}, err
		}
	}
	return result, nil
}

// End is the maximum End over all cuts, or 0 when empty.
func (c Cuts) End() int {
	end := 0
	for _, cut := range c.byID {
		if cut.End() > end {
			end = cut.End()
		}
	}
	return end
}

// SplitIntoSections flattens this Cuts collection into the canonical,
// non-overlapping Sections sequence. This is the core
// section algorithm.
func (c Cuts) SplitIntoSections() (Sections, error) {
	var sections Sections
	start := 0
	overlaps, err := c.regionsWithOverlap()
	if err != nil {
		return Sections{}, err
	}
	for _, overlap := range overlaps {
		if overlap.Start > start {
			section, err := c.extractPlaylistSection(MustRegion(start, overlap.Start))
			if err != nil {
				return Sections{}, err
			}
			sections.Add(section.AsSection())
		}
		mix, err := c.extractMixSection(overlap)
		if err != nil {
			return Sections{}, err
		}
		sections.Add(mix.AsSection())
		start = overlap.End
	}
	if c.End() > start {
		section, err := c.extractPlaylistSection(MustRegion(start, c.End()))
		if err != nil {
			return Sections{}, err
		}
		sections.Add(section.AsSection())
	}
	return sections, nil
}

// extractPlaylistSection builds a Playlist section covering window:
// every cut clipped to window, sorted by start, interleaved with
// Space parts over the gaps.
func (c Cuts) extractPlaylistSection(window Region) (PlaylistSection, error) {
	clipped, err := c.CreateCut(window)
	if err != nil {
		return PlaylistSection{}, err
	}
	cuts := clipped.All()
	sort.SliceStable(cuts, func(i, j int) bool {
		return cuts[i].Start() < cuts[j].Start()
	})
	var parts []Part
	cursor := window.Start
	for _, cut := range cuts {
		if cut.Start() > cursor {
			parts = append(parts, spacePart(cut.Start()-cursor))
		} else if cut.Start() < cursor {
			return PlaylistSection{}, newConsistencyError(KindPlaylistOverlap,
				"cut %s starts at %d before cursor %d in window %s", cut.ID, cut.Start(), cursor, window)
		}
		parts = append(parts, cutPart(cut))
		cursor = cut.End()
	}
	if window.End > cursor {
		parts = append(parts, spacePart(window.End-cursor))
	} else if window.End < cursor {
		return PlaylistSection{}, newConsistencyError(KindPlaylistOverlap,
			"last cut in window %s ends at %d, past window end", window, cursor)
	}
	return PlaylistSection{Length: window.Length(), Parts: parts}, nil
}

// extractMixSection builds a Mix section covering window: one
// single-cut Playlist per cut overlapping window, sorted per
// sortCuts so visual/mix order is a pure function of the cut set.
func (c Cuts) extractMixSection(window Region) (MixSection, error) {
	clipped, err := c.CreateCut(window)
	if err != nil {
		return MixSection{}, err
	}
	sorted := sortCuts(clipped.All())
	playlists := make([]PlaylistSection, 0, len(sorted))
	for _, cut := range sorted {
		single, err := FromCuts(cut)
		if err != nil {
			return MixSection{}, err
		}
		playlist, err := single.extractPlaylistSection(window)
		if err != nil {
			return MixSection{}, err
		}
		playlists = append(playlists, playlist)
	}
	return MixSection{Length: window.Length(), Playlists: playlists}, nil
}

// sortCuts orders cuts by (source_cut.start, source_cut.end), with
// mix_strategy=over cuts promoted to the front (lower-indexed / drawn
// above). The tie-break is deterministic.
func sortCuts(cuts []Cut) []Cut {
	sorted := make([]Cut, 0, len(cuts))
	byKey := make([]Cut, len(cuts))
	copy(byKey, cuts)
	sort.SliceStable(byKey, func(i, j int) bool {
		si, sj := byKey[i].GetSourceCut(), byKey[j].GetSourceCut()
		if si.Start() != sj.Start() {
			return si.Start() < sj.Start()
		}
		return si.End() < sj.End()
	})
	for _, cut := range byKey {
		if cut.MixStrategy == MixOver {
			sorted = append([]Cut{cut}, sorted...)
		} else {
			sorted = append(sorted, cut)
		}
	}
	return sorted
}

// regionsWithOverlap computes the union of every pairwise overlap
// between cuts that share at least one bucket, which prunes the O(N^2)
// comparison to near-linear when cuts are sparse.
func (c Cuts) regionsWithOverlap() ([]Region, error) {
	var overlaps UnionRegions
	for _, ids := range c.buckets {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := c.byID[ids[i]], c.byID[ids[j]]
				if overlap, ok := a.Overlap(b); ok {
					overlaps.Add(overlap)
				}
			}
		}
	}
	return overlaps.Merge(), nil
}

func (c Cuts) addToBuckets(cut Cut) {
	for g := range cut.RegionGroups(c.groupSize) {
		if !containsString(c.buckets[g], cut.ID) {
			c.buckets[g] = append(c.buckets[g], cut.ID)
		}
	}
}

func (c Cuts) removeFromBuckets(cut Cut) {
	for g := range cut.RegionGroups(c.groupSize) {
		c.buckets[g] = removeString(c.buckets[g], cut.ID)
	}
}

func (c Cuts) clone() Cuts {
	next := Cuts{
		order:     make([]string, len(c.order)),
		byID:      make(map[string]Cut, len(c.byID)),
		buckets:   make(map[int][]string, len(c.buckets)),
		groupSize: c.groupSize,
	}
	copy(next.order, c.order)
	for k, v := range c.byID {
		next.byID[k] = v
	}
	for k, v := range c.buckets {
		cp := make([]string, len(v))
		copy(cp, v)
		next.buckets[k] = cp
	}
	return next
}

// ToAsciiCanvas renders each cut on its own row at its timeline
// position, bracketed by "|" columns — a diagnostic view of the raw
// (possibly overlapping) Cuts collection, distinct from the flattened
// Sections rendering.
func (c Cuts) ToAsciiCanvas() *AsciiCanvas {
	canvas := NewAsciiCanvas()
	cuts := c.All()
	for y, cut := range cuts {
		canvas.AddCanvas(cutAsciiCanvas(cut), cut.Start()+1, y)
	}
	x := canvas.MaxX() + 1
	if x < 1 {
		x = 1
	}
	for y := range cuts {
		canvas.AddText("|", 0, y)
		canvas.AddText("|", x, y)
	}
	return canvas
}

func cutAsciiCanvas(c Cut) *AsciiCanvas {
	canvas := NewAsciiCanvas()
	canvas.AddText(c.toAsciiText(), 0, 0)
	return canvas
}

func sortedGroupKeys(groups map[int]struct{}) []int {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func removeString(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
