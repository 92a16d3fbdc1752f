// Package format identifies which codec a source file needs by its
// extension, and is also consulted by ProxyCache when naming a
// transcoded proxy file.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

type (
	// Format of the file that contains audio signal.
	Format interface {
		DefaultExtension() string
		MatchExtension(string) bool
		Extensions() []string
	}

	// generic struct that implements Format interface.
	format struct {
		defaultExtension string
		extensions       []string
	}
)

var (
	// WAV represents Waveform Audio file format.
	WAV = &format{
		defaultExtension: ".wav",
		extensions: []string{
			".wav",
			".wave",
		},
	}

	// MP3 represents MPEG-1 or MPEG-2 Audio Layer III file format.
	MP3 = &format{
		defaultExtension: ".mp3",
		extensions: []string{
			".mp3",
		},
	}

	// FLAC represents Free Lossless Audio Codec file format.
	FLAC = &format{
		defaultExtension: ".flac",
		extensions: []string{
			".flac",
		},
	}

	formatByExtension = func(formats ...Format) map[string]Format {
		m := make(map[string]Format)
		for _, format := range formats {
			for _, ext := range format.Extensions() {
				if _, ok := m[ext]; ok {
					panic(fmt.Sprintf("multiple formats have same extension: %s", ext))
				}
				m[ext] = format
			}
		}
		return m
	}(WAV, MP3, FLAC)
)

// FormatByPath determines file format by file extension
// extracted from path. If extension belongs to unsupported
// format, second return argument will be false.
func FormatByPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	switch {
	case WAV.MatchExtension(ext):
		return WAV, true
	case MP3.MatchExtension(ext):
		return MP3, true
	case FLAC.MatchExtension(ext):
		return FLAC, true
	default:
		return nil, false
	}
}

// MatchExtension checks if ext matches to one of the format's
// extensions. Case is ignored.
func (f *format) MatchExtension(ext string) bool {
	format, ok := formatByExtension[strings.ToLower(ext)]
	if !ok {
		return false
	}
	return f == format
}

// DefaultExtension of the format.
func (f *format) DefaultExtension() string {
	return f.defaultExtension
}

// Extensions returns a slice of format's extensions.
func (f *format) Extensions() []string {
	return append(f.extensions[:0:0], f.extensions...)
}
