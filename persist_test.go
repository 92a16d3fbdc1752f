package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")

	data := NewProjectData()
	source := NewFileSource("/clips/a.wav", 100)
	data, err := data.AddSource(source)
	assert.NoError(t, err)
	data, err = data.AddClip(source.ID, 5)
	assert.NoError(t, err)

	assert.NoError(t, Save(data, path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, data.Sources.Len(), loaded.Sources.Len())
	assert.Equal(t, data.Cuts.Len(), loaded.Cuts.Len())

	loadedSource, ok := loaded.Sources.Get(source.ID)
	assert.True(t, ok)
	assert.Equal(t, source.File.Path, loadedSource.File.Path)
}

func TestSaveFlattensNestedCutsToRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")

	data := NewProjectData()
	source := NewFileSource("/clips/a.wav", 100)
	data, _ = data.AddSource(source)
	data, _ = data.AddClip(source.ID, 0)
	root := data.Cuts.All()[0]
	nested, ok := root.CreateCut(MustRegion(10, 20))
	assert.True(t, ok)
	assert.NotNil(t, nested.CutRef)
	cuts, err := data.Cuts.Add(nested)
	assert.NoError(t, err)
	data.Cuts = cuts

	assert.NoError(t, Save(data, path))
	loaded, err := Load(path)
	assert.NoError(t, err)

	for _, cut := range loaded.Cuts.All() {
		assert.NotNil(t, cut.SourceRef)
		assert.Nil(t, cut.CutRef)
	}
}

func TestLoadRejectsDanglingSourceReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	raw := `{"sources":{},"cuts":{"c1":{"source":"missing","in_out":{"start":0,"end":5},"position":0}}}`
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLooksLikeDocumentPath(t *testing.T) {
	assert.True(t, LooksLikeDocumentPath("project.json"))
	assert.True(t, LooksLikeDocumentPath("scene.rlv"))
	assert.False(t, LooksLikeDocumentPath("clip.wav"))
}
