package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// MixStrategy is the stacking order when cuts overlap inside a Mix
// section. Over is rendered above (drawn/mixed on top of) Under.
type MixStrategy string

const (
	MixOver  MixStrategy = "over"
	MixUnder MixStrategy = "under"
)

// CutSource is the root of a (possibly nested) cut's source chain: a
// direct reference to a Source by id.
type CutSource struct {
	SourceID string
}

// Cut is an immutable record placing a window of a source (or of
// another cut, for nested projections created by CreateCut) at a
// position on the timeline.
//
// Source is exactly one of SourceRef (root) or CutRef (nested); the
// chain length is bounded by the recursion depth of section
// extraction, which the current algorithm never exceeds 2.
type Cut struct {
	ID          string
	SourceRef   *CutSource
	CutRef      *Cut
	InOut       Region
	Position    int
	MixStrategy MixStrategy
	Volume      int
	Speed       float64
}

func newCut(source CutSource, inOut Region, position int) Cut {
	return Cut{
		ID:          uuid.NewString(),
		SourceRef:   &source,
		InOut:       inOut,
		Position:    position,
		MixStrategy: MixUnder,
		Volume:      0,
		Speed:       1,
	}
}

// Length is InOut.Length().
func (c Cut) Length() int {
	return c.InOut.Length()
}

// Start is Position.
func (c Cut) Start() int {
	return c.Position
}

// End is Position + Length.
func (c Cut) End() int {
	return c.Position + c.Length()
}

// Region is [Start,End) on the timeline axis.
func (c Cut) Region() Region {
	return MustRegion(c.Start(), c.End())
}

// RegionGroups returns the bucket indices this cut's region touches.
func (c Cut) RegionGroups(groupSize int) map[int]struct{} {
	return c.Region().Groups(groupSize)
}

// Overlap returns the overlapping region between c and other, if any.
func (c Cut) Overlap(other Cut) (Region, bool) {
	return c.Region().Overlap(other.Region())
}

// GetSourceID returns the id of the source this cut (or its source
// chain's root) ultimately refers to.
func (c Cut) GetSourceID() string {
	return c.GetSourceCut().SourceRef.SourceID
}

// GetSourceCut chases a nested-cut chain to its root: the original
// cut that carries a SourceRef rather than a CutRef.
func (c Cut) GetSourceCut() Cut {
	if c.CutRef != nil {
		return c.CutRef.GetSourceCut()
	}
	return c
}

// StartsAtOriginalCut reports whether this cut's visible start
// coincides with its root cut's start (true for unsliced cuts).
func (c Cut) StartsAtOriginalCut() bool {
	if c.CutRef == nil {
		return true
	}
	return c.CutRef.StartsAt(c.Start())
}

// EndsAtOriginalCut is the End-side analogue of StartsAtOriginalCut.
func (c Cut) EndsAtOriginalCut() bool {
	if c.CutRef == nil {
		return true
	}
	return c.CutRef.EndsAt(c.End())
}

func (c Cut) StartsAt(position int) bool {
	return c.Start() == position
}

func (c Cut) EndsAt(position int) bool {
	return c.End() == position
}

// WithMixStrategy returns a copy with a new mix strategy.
func (c Cut) WithMixStrategy(strategy MixStrategy) Cut {
	c.MixStrategy = strategy
	return c
}

// WithVolume returns a copy with a new volume.
func (c Cut) WithVolume(volume int) Cut {
	c.Volume = volume
	return c
}

// Move shifts position by delta, clamped so Position never goes
// negative.
func (c Cut) Move(delta int) Cut {
	c.Position = max(0, c.Position+delta)
	return c
}

// MoveLeft shifts both InOut.Start and Position by amount, clamped so
// that InOut.Start >= 0, Position >= 0, and the cut never collapses to
// zero length.
func (c Cut) MoveLeft(amount int) Cut {
	amount = max(amount, -c.InOut.Start)
	amount = max(amount, -c.Position)
	amount = min(amount, c.Length()-1)
	c.InOut = Region{Start: c.InOut.Start + amount, End: c.InOut.End}
	c.Position += amount
	return c
}

// ResizeRight changes InOut.Length by amount, preserving Position, and
// adjusts Speed by old_length/new_length so the cut still occupies
// new_length frames of timeline while selecting the original source
// interval (the Go analogue of MLT's timewarp).
func (c Cut) ResizeRight(amount int) Cut {
	oldLength := c.InOut.Length()
	newLength := c.InOut.MoveEnd(amount).Length()
	if newLength <= 0 {
		return c
	}
	speedChange := float64(oldLength) / float64(newLength)
	c.InOut = c.InOut.Scale(newLength, oldLength)
	c.Speed = c.Speed * speedChange
	return c
}

// Split divides c at the given timeline position into two fresh cuts:
// A keeps Position and its in/out resized to [Position,at); B starts
// at `at` with its in/out shortened on the left by the same amount.
// Both receive fresh ids.
func (c Cut) Split(at int) (Cut, Cut, error) {
	if at <= c.Start() || at >= c.End() {
		return Cut{}, Cut{}, fmt.Errorf("%w: split point %d outside cut region %s", ErrInvalidCut, at, c.Region())
	}
	delta := at - c.Start()
	a := c
	a.InOut = a.InOut.ResizeTo(delta)
	a.ID = uuid.NewString()
	b := c
	b.InOut = b.InOut.ShortenLeft(delta)
	b.Position = c.Position + delta
	b.ID = uuid.NewString()
	return a, b, nil
}

// CreateCut projects this cut onto a sub-window. If window contains
// the whole cut region, c is returned unchanged. If they overlap
// partially, a new cut is returned whose source chain points at c (a
// nested projection), in/out offset into c's in/out, and Position set
// to the overlap's start. Returns false if there's no overlap at all.
func (c Cut) CreateCut(window Region) (Cut, bool) {
	overlap, ok := c.Region().Overlap(window)
	if !ok {
		return Cut{}, false
	}
	if overlap.Start == c.Start() && overlap.End == c.End() {
		return c, true
	}
	parent := c
	sub := c
	sub.ID = uuid.NewString()
	sub.SourceRef = nil
	sub.CutRef = &parent
	sub.InOut = Region{
		Start: c.InOut.Start + overlap.Start - c.Start(),
		End:   c.InOut.End - c.End() + overlap.End,
	}
	sub.Position = overlap.Start
	return sub, true
}

// toAsciiText renders the diagnostic "<-A0----->" form: the marker on
// each edge shows whether the visible slice touches the root cut's
// original edge.
func (c Cut) toAsciiText() string {
	startMarker := "-"
	if c.StartsAtOriginalCut() {
		startMarker = "<-"
	}
	endMarker := "-"
	if c.EndsAtOriginalCut() {
		endMarker = "->"
	}
	label := c.GetSourceID()
	firstChar := "?"
	if len(label) > 0 {
		firstChar = label[0:1]
	}
	text := startMarker + firstChar + fmt.Sprintf("%d", c.InOut.Start)
	fillLen := c.Length() - len(text) - len(endMarker)
	if fillLen < 0 {
		return repeatHash(c.Length())
	}
	text += repeatDash(fillLen) + endMarker
	if len(text) != c.Length() {
		return repeatHash(c.Length())
	}
	return text
}

func repeatDash(n int) string {
	if n < 0 {
		n = 0
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func repeatHash(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '#'
	}
	return string(b)
}

// Space is the non-Cut part in a Playlist: a gap of the given length.
type Space struct {
	Length int
}

// Part is either a Cut or a Space inside a Playlist.
type Part struct {
	Cut   *Cut
	Space *Space
}

func cutPart(c Cut) Part   { return Part{Cut: &c} }
func spacePart(l int) Part { return Part{Space: &Space{Length: l}} }

// Length returns the part's extent on the timeline.
func (p Part) Length() int {
	if p.Cut != nil {
		return p.Cut.Length()
	}
	return p.Space.Length
}
