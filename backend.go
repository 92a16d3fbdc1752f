package timeline

import "context"

// Producer is an opaque handle to compiled playable media, built and
// consumed entirely by a MediaBackend implementation. The core never
// inspects one; it only threads producers through backend calls while
// compiling a Sections tree.
type Producer interface {
	// Playtime is the producer's length in project frames, used by
	// Backend-inconsistency checks when compiling Sections.
	Playtime() int
}

// Playlist accumulates producers end to end; Tractor multiplexes
// parallel tracks with transitions planted between them. Both are
// backend-native handles, opaque to the core.
type Playlist interface {
	Producer
}

// Tractor is the multi-track handle make_mix compiles Mix sections
// onto.
type Tractor interface {
	Producer
}

// MediaBackend is the external collaborator that turns a compiled
// Sections tree into playable/renderable media. The
// core depends only on this interface; decoders, demuxers, compositor
// and codecs live entirely on the other side of it.
type MediaBackend interface {
	MakeFileProducer(path string, profile string) (Producer, error)
	MakeTextProducer(text string) (Producer, error)
	MakeTimewarp(producer Producer, speed float64) (Producer, error)
	MakeVolume(producer Producer, levelDB int) (Producer, error)

	Cut(producer Producer, in, out int) (Producer, error)

	NewPlaylist() Playlist
	Append(playlist Playlist, producer Producer) error
	Blank(playlist Playlist, frames int) error

	NewTractor() Tractor
	TractorInsertTrack(tractor Tractor, index int, producer Producer) error
	PlantTransition(tractor Tractor, trackA, trackB int) error

	// RunConsumerToFile renders producer to target, invoking progress
	// with a 0..1 fraction as it proceeds.
	RunConsumerToFile(ctx context.Context, producer Producer, target string, progress func(float64)) error

	// RenderToFileAndCapture renders producer to target like
	// RunConsumerToFile, but also returns an independent producer built
	// from the same decode, for callers that need both a cached file
	// and a ready-to-serve producer without paying for two decodes.
	RenderToFileAndCapture(ctx context.Context, producer Producer, target string, progress func(float64)) (Producer, error)
}
