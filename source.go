package timeline

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// Source is the tagged File|Text variant. It is immutable once
// constructed; FileSource's LengthInProjectFrames is frozen at import
// time and implicitly defines the project's frame rate.
type Source struct {
	ID   string
	File *FileSource
	Text *TextSource
}

// FileSource describes a clip backed by a file on disk.
type FileSource struct {
	Path                  string
	LengthInProjectFrames int
}

// TextSource describes a synthesized text clip with no inherent length.
type TextSource struct {
	Text string
}

// NewFileSource builds a File source with a fresh id.
func NewFileSource(path string, lengthInProjectFrames int) Source {
	return Source{
		ID: uuid.NewString(),
		File: &FileSource{
			Path:                  path,
			LengthInProjectFrames: lengthInProjectFrames,
		},
	}
}

// NewTextSource builds a Text source with a fresh id.
func NewTextSource(text string) Source {
	return Source{
		ID:   uuid.NewString(),
		Text: &TextSource{Text: text},
	}
}

// WithID returns a copy of s with a different id, used when importing
// a source under a caller-supplied, already-unique id (e.g. fixtures).
func (s Source) WithID(id string) Source {
	s.ID = id
	return s
}

// IsFile reports whether s is a file-backed source.
func (s Source) IsFile() bool {
	return s.File != nil
}

// Label is the human-readable name shown in the UI: the file's base
// name, or the text itself for a text source.
func (s Source) Label() string {
	if s.File != nil {
		return filepath.Base(s.File.Path)
	}
	if s.Text != nil {
		return s.Text.Text
	}
	return ""
}

// ClampInOut enforces the invariant that a File source's in/out window
// cannot exceed its frozen length: 0 <= start, end <=
// length. Text sources have no inherent length and are left untouched.
func (s Source) ClampInOut(inOut Region) Region {
	if s.File == nil {
		return inOut
	}
	maxEnd := s.File.LengthInProjectFrames
	start := inOut.Start
	end := inOut.End
	if start < 0 {
		start = 0
	}
	if end > maxEnd {
		end = maxEnd
	}
	if end <= start {
		end = start + 1
	}
	return Region{Start: start, End: end}
}

// CreateCut projects a fresh root cut covering [start,end) of this
// source onto timeline position 0. Fails with ErrInvalidCut if the
// window falls outside a File source's length.
func (s Source) CreateCut(start, end int) (Cut, error) {
	if s.File != nil {
		if start < 0 || end > s.File.LengthInProjectFrames {
			return Cut{}, fmt.Errorf("%w: [%d,%d) outside source of length %d", ErrInvalidCut, start, end, s.File.LengthInProjectFrames)
		}
	}
	region, err := NewRegion(start, end)
	if err != nil {
		return Cut{}, err
	}
	return newCut(CutSource{SourceID: s.ID}, region, 0), nil
}

// Sources is an insertion-ordered id -> Source map.
type Sources struct {
	order []string
	byID  map[string]Source
}

// NewSources returns an empty Sources collection.
func NewSources() Sources {
	return Sources{byID: map[string]Source{}}
}

// Add inserts source, failing if its id is already present.
func (s Sources) Add(source Source) (Sources, error) {
	if _, ok := s.byID[source.ID]; ok {
		return s, fmt.Errorf("%w: source %s", ErrDuplicateID, source.ID)
	}
	next := s.clone()
	next.order = append(next.order, source.ID)
	next.byID[source.ID] = source
	return next, nil
}

// Get looks up a source by id.
func (s Sources) Get(id string) (Source, bool) {
	src, ok := s.byID[id]
	return src, ok
}

// Has reports whether id is a known source.
func (s Sources) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of sources.
func (s Sources) Len() int {
	return len(s.order)
}

// IDs returns source ids in insertion order.
func (s Sources) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s Sources) clone() Sources {
	next := Sources{
		order: make([]string, len(s.order)),
		byID:  make(map[string]Source, len(s.byID)),
	}
	copy(next.order, s.order)
	for k, v := range s.byID {
		next.byID[k] = v
	}
	return next
}
