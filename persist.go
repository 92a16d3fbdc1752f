package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// document is the on-disk shape: two maps keyed by the same ids
// Sources/Cuts use internally.
type document struct {
	Sources map[string]sourceDocument `json:"sources"`
	Cuts    map[string]cutDocument    `json:"cuts"`
}

type sourceDocument struct {
	Type   string `json:"type"`
	Path   string `json:"path,omitempty"`
	Length int    `json:"length,omitempty"`
	Text   string `json:"text,omitempty"`
}

type cutDocument struct {
	Source      string      `json:"source"`
	InOut       regionDoc   `json:"in_out"`
	Position    int         `json:"position"`
	MixStrategy MixStrategy `json:"mix_strategy"`
	Volume      int         `json:"volume"`
	Speed       float64     `json:"speed"`
}

type regionDoc struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Save serializes p to path atomically: write to path+".tmp", then
// rename over path. Cuts are flattened to their source
// cut before persisting — nested-cut chains are an in-memory-only
// algebra.
func Save(p ProjectData, path string) error {
	doc := document{
		Sources: make(map[string]sourceDocument, p.Sources.Len()),
		Cuts:    make(map[string]cutDocument, p.Cuts.Len()),
	}
	for _, id := range p.Sources.IDs() {
		source, _ := p.Sources.Get(id)
		doc.Sources[id] = toSourceDocument(source)
	}
	for _, cut := range p.Cuts.All() {
		doc.Cuts[cut.ID] = toCutDocument(cut)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp project file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// Load reads and validates a project document from path.
func Load(path string) (ProjectData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectData{}, fmt.Errorf("read project file %s: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ProjectData{}, fmt.Errorf("unmarshal project document %s: %w", path, err)
	}
	project := NewProjectData()
	for id, sd := range doc.Sources {
		source, err := fromSourceDocument(id, sd)
		if err != nil {
			return ProjectData{}, err
		}
		project, err = project.AddSource(source)
		if err != nil {
			return ProjectData{}, err
		}
	}
	for id, cd := range doc.Cuts {
		cut, err := fromCutDocument(id, cd)
		if err != nil {
			return ProjectData{}, err
		}
		cuts, err := project.Cuts.Add(cut)
		if err != nil {
			return ProjectData{}, err
		}
		project.Cuts = cuts
	}
	if err := project.Validate(); err != nil {
		return ProjectData{}, err
	}
	return project, nil
}

func toSourceDocument(s Source) sourceDocument {
	if s.File != nil {
		return sourceDocument{Type: "file", Path: s.File.Path, Length: s.File.LengthInProjectFrames}
	}
	return sourceDocument{Type: "text", Text: s.Text.Text}
}

func fromSourceDocument(id string, sd sourceDocument) (Source, error) {
	switch sd.Type {
	case "file":
		return NewFileSource(sd.Path, sd.Length).WithID(id), nil
	case "text":
		return NewTextSource(sd.Text).WithID(id), nil
	default:
		return Source{}, fmt.Errorf("%w: unknown source type %q for %s", ErrInvalidCut, sd.Type, id)
	}
}

func toCutDocument(c Cut) cutDocument {
	root := c.GetSourceCut()
	return cutDocument{
		Source:      root.SourceRef.SourceID,
		InOut:       regionDoc{Start: root.InOut.Start, End: root.InOut.End},
		Position:    c.Position,
		MixStrategy: c.MixStrategy,
		Volume:      c.Volume,
		Speed:       c.Speed,
	}
}

func fromCutDocument(id string, cd cutDocument) (Cut, error) {
	region, err := NewRegion(cd.InOut.Start, cd.InOut.End)
	if err != nil {
		return Cut{}, err
	}
	strategy := cd.MixStrategy
	if strategy == "" {
		strategy = MixUnder
	}
	speed := cd.Speed
	if speed == 0 {
		speed = 1
	}
	return Cut{
		ID:          id,
		SourceRef:   &CutSource{SourceID: cd.Source},
		InOut:       region,
		Position:    cd.Position,
		MixStrategy: strategy,
		Volume:      cd.Volume,
		Speed:       speed,
	}, nil
}

// DefaultDocumentExtensions are the path suffixes the CLI recognizes
// as an existing project document rather than a media clip to import.
var DefaultDocumentExtensions = []string{".json", ".rlv", ".timeline"}

// LooksLikeDocumentPath reports whether path's extension matches one
// of DefaultDocumentExtensions.
func LooksLikeDocumentPath(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range DefaultDocumentExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
