package timeline

// Sections is the canonical, derived (never stored) flattening of a
// Cuts collection into an ordered sequence of Playlist/Mix sections.
// The concatenation of section lengths equals the covered Cuts' End,
// or 0 when empty.
type Sections struct {
	sections []Section
}

// Section is either a PlaylistSection or a MixSection.
type Section struct {
	Playlist *PlaylistSection
	Mix      *MixSection
}

// Length returns the section's extent on the timeline.
func (s Section) Length() int {
	if s.Playlist != nil {
		return s.Playlist.Length
	}
	return s.Mix.Length
}

// Add appends one or more sections.
func (s *Sections) Add(sections ...Section) {
	s.sections = append(s.sections, sections...)
}

// All returns the sections in order.
func (s Sections) All() []Section {
	return s.sections
}

// Length is the sum of every section's length.
func (s Sections) Length() int {
	total := 0
	for _, section := range s.sections {
		total += section.Length()
	}
	return total
}

// PlaylistSection is a maximal slice of the timeline inside which no
// cuts overlap: an ordered sequence of Space/Cut parts.
type PlaylistSection struct {
	Length int
	Parts  []Part
}

// AsSection wraps p as a Section.
func (p PlaylistSection) AsSection() Section {
	return Section{Playlist: &p}
}

// MixSection is a maximal slice of the timeline inside which every
// inner Playlist has length equal to the Mix length (all the overlapping
// cuts are padded with Space to fill the overlap window).
type MixSection struct {
	Length    int
	Playlists []PlaylistSection
}

// AsSection wraps m as a Section.
func (m MixSection) AsSection() Section {
	return Section{Mix: &m}
}

// ToAsciiCanvas renders the full Sections sequence as the "|"-delimited
// diagnostic/test-oracle format.
func (s Sections) ToAsciiCanvas() *AsciiCanvas {
	canvas := NewAsciiCanvas()
	if len(s.sections) == 0 {
		return canvas
	}
	offset := 1
	lines := []int{0}
	for _, section := range s.sections {
		canvas.AddCanvas(section.toAsciiCanvas(), offset, 0)
		lines = append(lines, canvas.MaxX()+1)
		offset += 1 + section.Length()
	}
	maxY := canvas.MaxY()
	for _, line := range lines {
		for y := 0; y <= maxY; y++ {
			canvas.AddText("|", line, y)
		}
	}
	return canvas
}

func (s Section) toAsciiCanvas() *AsciiCanvas {
	if s.Playlist != nil {
		return s.Playlist.toAsciiCanvas()
	}
	return s.Mix.toAsciiCanvas()
}

func (p PlaylistSection) toAsciiCanvas() *AsciiCanvas {
	canvas := NewAsciiCanvas()
	x := 0
	for _, part := range p.Parts {
		canvas.AddCanvas(part.toAsciiCanvas(), x, 0)
		x = canvas.MaxX() + 1
	}
	return canvas
}

func (m MixSection) toAsciiCanvas() *AsciiCanvas {
	canvas := NewAsciiCanvas()
	for y, playlist := range m.Playlists {
		canvas.AddCanvas(playlist.toAsciiCanvas(), 0, y)
	}
	return canvas
}

func (p Part) toAsciiCanvas() *AsciiCanvas {
	canvas := NewAsciiCanvas()
	if p.Space != nil {
		canvas.AddText(repeatChar('%', p.Space.Length), 0, 0)
		return canvas
	}
	canvas.AddText(p.Cut.toAsciiText(), 0, 0)
	return canvas
}

func repeatChar(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}

// ToCutBoxes recursively subdivides rectangle in sync with this
// Sections' section/part/playlist lengths, returning, for every
// source cut touched, the list of rectangles it occupies — more than
// one when the cut spans adjacent sections. window restricts the
// traversal to sections overlapping it; pass the full timeline region
// to cover everything.
func (s Sections) ToCutBoxes(window Region, rectangle Rectangle) (map[string][]Rectangle, error) {
	boxes := map[string][]Rectangle{}
	lengths := make([]int, len(s.sections))
	for i, section := range s.sections {
		lengths[i] = section.Length()
	}
	rects := rectangle.DivideWidth(lengths)
	offset := 0
	for i, section := range s.sections {
		sectionRegion := MustRegion(offset, offset+section.Length())
		offset += section.Length()
		if _, ok := sectionRegion.Overlap(window); !ok {
			continue
		}
		if err := section.collectCutBoxes(rects[i], boxes); err != nil {
			return nil, err
		}
	}
	return boxes, nil
}

func (s Section) collectCutBoxes(rect Rectangle, boxes map[string][]Rectangle) error {
	if s.Playlist != nil {
		return s.Playlist.collectCutBoxes(rect, boxes)
	}
	return s.Mix.collectCutBoxes(rect, boxes)
}

func (p PlaylistSection) collectCutBoxes(rect Rectangle, boxes map[string][]Rectangle) error {
	lengths := make([]int, len(p.Parts))
	for i, part := range p.Parts {
		lengths[i] = part.Length()
	}
	rects := rect.DivideWidth(lengths)
	for i, part := range p.Parts {
		if part.Cut == nil {
			continue
		}
		if err := addCutBox(boxes, part.Cut.GetSourceCut().ID, rects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m MixSection) collectCutBoxes(rect Rectangle, boxes map[string][]Rectangle) error {
	lengths := make([]int, len(m.Playlists))
	for i := range m.Playlists {
		lengths[i] = 1
	}
	rows := rect.DivideHeight(lengths)
	for i, playlist := range m.Playlists {
		if err := playlist.collectCutBoxes(rows[i], boxes); err != nil {
			return err
		}
	}
	return nil
}

// addCutBox appends rect to cutID's box list, enforcing that boxes for
// the same cut on the same row are contiguous in x with no gaps.
func addCutBox(boxes map[string][]Rectangle, cutID string, rect Rectangle) error {
	existing := boxes[cutID]
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		if last.Y == rect.Y && last.Right() != rect.X {
			return newConsistencyError(KindCutBoxesGap, "cut %s boxes are not contiguous: previous box ends at x=%d, next starts at x=%d", cutID, last.Right(), rect.X)
		}
	}
	boxes[cutID] = append(existing, rect)
	return nil
}
