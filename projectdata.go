package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// ProjectData is the immutable snapshot `{sources, cuts}` a Project
// holds and a Transaction replaces wholesale on every mutation. Zero
// value is a valid empty project.
type ProjectData struct {
	Sources Sources
	Cuts    Cuts
}

// NewProjectData returns an empty project.
func NewProjectData() ProjectData {
	return ProjectData{Sources: NewSources(), Cuts: NewCuts()}
}

// Validate checks the cross-collection invariant: every cut's source
// chain resolves to a known source.
func (p ProjectData) Validate() error {
	for _, cut := range p.Cuts.All() {
		sourceID := cut.GetSourceID()
		if !p.Sources.Has(sourceID) {
			return fmt.Errorf("%w: cut %s references source %s", ErrUnknownID, cut.ID, sourceID)
		}
	}
	return nil
}

// AddSource returns a copy of p with source appended.
func (p ProjectData) AddSource(source Source) (ProjectData, error) {
	sources, err := p.Sources.Add(source)
	if err != nil {
		return ProjectData{}, err
	}
	p.Sources = sources
	return p, nil
}

// AddClip places a new cut of an existing source at position. For a
// File source the cut covers [0, source length); for any other source
// it covers [0, 1).
func (p ProjectData) AddClip(sourceID string, position int) (ProjectData, error) {
	source, ok := p.Sources.Get(sourceID)
	if !ok {
		return ProjectData{}, fmt.Errorf("%w: source %s", ErrUnknownID, sourceID)
	}
	length := 1
	if source.File != nil {
		length = source.File.LengthInProjectFrames
	}
	cut, err := source.CreateCut(0, length)
	if err != nil {
		return ProjectData{}, err
	}
	cut.Position = position
	cuts, err := p.Cuts.Add(cut)
	if err != nil {
		return ProjectData{}, err
	}
	p.Cuts = cuts
	return p, nil
}

// AddTextClip creates a Text source on the fly and places a cut of the
// given length at position.
func (p ProjectData) AddTextClip(text string, length, position int) (ProjectData, error) {
	source := NewTextSource(text)
	sources, err := p.Sources.Add(source)
	if err != nil {
		return ProjectData{}, err
	}
	region, err := NewRegion(0, length)
	if err != nil {
		return ProjectData{}, err
	}
	cut := Cut{
		ID:          uuid.NewString(),
		SourceRef:   &CutSource{SourceID: source.ID},
		InOut:       region,
		Position:    position,
		MixStrategy: MixUnder,
		Speed:       1,
	}
	cuts, err := p.Cuts.Add(cut)
	if err != nil {
		return ProjectData{}, err
	}
	p.Sources = sources
	p.Cuts = cuts
	return p, nil
}

// Modify applies fn to the cut with cutID.
func (p ProjectData) Modify(cutID string, fn func(Cut) Cut) (ProjectData, error) {
	cuts, err := p.Cuts.Modify(cutID, fn)
	if err != nil {
		return ProjectData{}, err
	}
	p.Cuts = cuts
	return p, nil
}

// RippleDelete removes cutID and closes the resulting gap.
func (p ProjectData) RippleDelete(cutID string) (ProjectData, error) {
	cuts, err := p.Cuts.RippleDelete(cutID)
	if err != nil {
		return ProjectData{}, err
	}
	p.Cuts = cuts
	return p, nil
}

// Split replaces cutID with the two halves Cut.Split(at) produces.
func (p ProjectData) Split(cutID string, at int) (ProjectData, error) {
	cuts, err := p.Cuts.Split(cutID, at)
	if err != nil {
		return ProjectData{}, err
	}
	p.Cuts = cuts
	return p, nil
}

// GetCutIDs returns the ids of every cut satisfying predicate, in
// insertion order.
func (p ProjectData) GetCutIDs(predicate func(Cut) bool) []string {
	var ids []string
	for _, cut := range p.Cuts.All() {
		if predicate == nil || predicate(cut) {
			ids = append(ids, cut.ID)
		}
	}
	return ids
}

// AdjustCutInOut clamps every cut's InOut to its owning File source's
// available range, run automatically on transaction commit.
func (p ProjectData) AdjustCutInOut() (ProjectData, error) {
	cuts := p.Cuts
	for _, cut := range cuts.All() {
		source, ok := p.Sources.Get(cut.GetSourceID())
		if !ok {
			return ProjectData{}, fmt.Errorf("%w: cut %s references source %s", ErrUnknownID, cut.ID, cut.GetSourceID())
		}
		clamped := source.ClampInOut(cut.InOut)
		if clamped == cut.InOut {
			continue
		}
		var err error
		cuts, err = cuts.Modify(cut.ID, func(c Cut) Cut {
			c.InOut = clamped
			return c
		})
		if err != nil {
			return ProjectData{}, err
		}
	}
	p.Cuts = cuts
	return p, nil
}

// SplitIntoSections is a convenience forward to p.Cuts.SplitIntoSections.
func (p ProjectData) SplitIntoSections() (Sections, error) {
	return p.Cuts.SplitIntoSections()
}
