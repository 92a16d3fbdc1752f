package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clipforge/timeline/mediabackend/format"
)

func TestFormatByPath(t *testing.T) {
	var tests = []struct {
		fileName string
		ok       bool
	}{
		{fileName: "test.wav", ok: true},
		{fileName: "test.mp3", ok: true},
		{fileName: "test.flac", ok: true},
		{fileName: "", ok: false},
		{fileName: "test.mov", ok: false},
	}

	for _, test := range tests {
		f, ok := format.FormatByPath(test.fileName)
		assert.Equal(t, test.ok, ok)
		if test.ok {
			assert.NotNil(t, f)
			assert.NotEmpty(t, f.DefaultExtension())
		}
	}
}

func TestExtensions(t *testing.T) {
	var tests = []struct {
		format   format.Format
		expected int
	}{
		{format.WAV, 2},
		{format.MP3, 1},
		{format.FLAC, 1},
	}

	for _, test := range tests {
		exts := test.format.Extensions()
		assert.Equal(t, test.expected, len(exts))
	}
}

func TestMatchExtensionIsCaseInsensitive(t *testing.T) {
	assert.True(t, format.WAV.MatchExtension(".WAV"))
	assert.False(t, format.WAV.MatchExtension(".mp3"))
}
