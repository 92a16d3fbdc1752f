// Package mediabackend is a reference MediaBackend:
// it compiles a Sections tree into a pipelined.dev/pipe graph built
// from Track (playlist assembly), Mixer (tractor summing) and Asset
// (signal capture), the way the upstream pipelined/audio library
// assembles clips into a playable pipeline. Real decode/encode is a
// seam (Decoder) so the actual codec work can stay an external
// collaborator, per the engine's scope boundary.
package mediabackend

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/clipforge/timeline"
	"github.com/clipforge/timeline/mediabackend/format"
	"github.com/sirupsen/logrus"
	"pipelined.dev/pipe"
	"pipelined.dev/signal"
)

// defaultBufferSize is the pipe frame size used for every render and
// capture graph this backend builds.
const defaultBufferSize = 512

// Decoder turns a file on disk into an in-memory signal buffer. There
// is no default Decoder: with a nil Decoder, MakeFileProducer only
// validates that the path's extension is a supported Format; real PCM
// decode is left to the external media engine this package stands in
// for.
type Decoder func(path string) (signal.Signal, signal.Frequency, error)

// Producer wraps a signal buffer (or a lazily built pipe source) with
// the Playtime every timeline.Producer must report.
type Producer struct {
	signal     signal.Signal
	sampleRate signal.Frequency
	length     int
	source     pipe.SourceAllocatorFunc
}

// Playtime is the producer's length in frames.
func (p *Producer) Playtime() int {
	return p.length
}

// sourceAllocator returns the pipe source this producer's frames are
// read through when it takes part in a render graph: the text-clip
// synthesizer's own source if one was set, or a plain replay of an
// already-captured signal.
func (p *Producer) sourceAllocator() pipe.SourceAllocatorFunc {
	if p.source != nil {
		return p.source
	}
	if p.signal != nil {
		return rawSource(p.sampleRate, p.signal)
	}
	return nil
}

// playlist adapts Track to timeline.Playlist: an ordered sequence of
// clips (cuts) and gaps (spaces), matching a compiled PlaylistSection.
type playlist struct {
	track      *Track
	sampleRate signal.Frequency
	length     int
}

func (p *playlist) Playtime() int { return p.length }

// tractor adapts Mixer to timeline.Tractor: parallel playlist tracks
// summed into one output, matching a compiled MixSection.
type tractor struct {
	mixer  *Mixer
	tracks []Producer
	length int
}

func (t *tractor) Playtime() int { return t.length }

// PipeBackend implements timeline.MediaBackend.
type PipeBackend struct {
	decode     Decoder
	sampleRate signal.Frequency
	channels   int
	bufferSize int
	log        *logrus.Entry
}

// NewPipeBackend builds a backend at the given sample rate/channel
// count. decode may be nil, in which case file producers carry no
// decoded signal, exist only to validate format support, and report a
// Playtime of 0.
func NewPipeBackend(sampleRate signal.Frequency, channels int, decode Decoder, log *logrus.Entry) *PipeBackend {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PipeBackend{decode: decode, sampleRate: sampleRate, channels: channels, bufferSize: defaultBufferSize, log: log}
}

var _ timeline.MediaBackend = (*PipeBackend)(nil)

// MakeFileProducer validates the path's format and, if a Decoder was
// supplied, decodes it into an in-memory Producer; profile selects a
// downscaled decode path in a full implementation (unused here beyond
// logging, since decode itself is delegated).
func (b *PipeBackend) MakeFileProducer(path string, profile string) (timeline.Producer, error) {
	fmt_, ok := format.FormatByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported media format for %s", path)
	}
	b.log.WithField("path", path).WithField("ext", fmt_.DefaultExtension()).WithField("profile", profile).Debug("resolving file producer")
	if b.decode == nil {
		return &Producer{sampleRate: b.sampleRate}, nil
	}
	sig, sampleRate, err := b.decode(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	asset, err := b.captureAsset(sampleRate, sig)
	if err != nil {
		return nil, fmt.Errorf("capture decoded signal for %s: %w", path, err)
	}
	return &Producer{signal: asset.Signal, sampleRate: asset.SampleRate(), length: asset.Signal.Length()}, nil
}

// captureAsset re-buffers a decoded signal through an Asset sink, the
// normalization step every decoded file producer's signal passes
// through before the rest of the backend touches it.
func (b *PipeBackend) captureAsset(sampleRate signal.Frequency, sig signal.Signal) (*Asset, error) {
	asset := &Asset{Signal: sig}
	p, err := pipe.New(b.bufferSize, pipe.Line{
		Source: rawSource(sampleRate, sig),
		Sink:   asset.Sink(),
	})
	if err != nil {
		return nil, err
	}
	if err := pipe.Wait(p.Start(context.Background())); err != nil {
		return nil, err
	}
	return asset, nil
}

// MakeTextProducer synthesizes a producer directly from a text string:
// text sources bypass the proxy cache and the decode seam entirely.
func (b *PipeBackend) MakeTextProducer(text string) (timeline.Producer, error) {
	length := textSynthesisLength(text, b.sampleRate)
	buf := signal.Allocator{Channels: b.channels, Capacity: length, Length: length}.Float64()
	return &Producer{
		signal:     buf,
		sampleRate: b.sampleRate,
		length:     length,
		source:     rawSource(b.sampleRate, buf),
	}, nil
}

// textSynthesisLength maps a caption's character count onto a frame
// count at a fixed reading pace, purely so text clips have a sensible
// default Playtime before the caller overrides it via resize_right.
func textSynthesisLength(text string, sampleRate signal.Frequency) int {
	const charsPerSecond = 15
	seconds := float64(len(text)) / charsPerSecond
	if seconds < 1 {
		seconds = 1
	}
	return int(seconds * float64(sampleRate))
}

// MakeTimewarp scales a producer's declared length by 1/speed — the
// compiled equivalent of Cut.ResizeRight's speed adjustment.
func (b *PipeBackend) MakeTimewarp(producer timeline.Producer, speed float64) (timeline.Producer, error) {
	p, ok := producer.(*Producer)
	if !ok {
		return nil, fmt.Errorf("timewarp: unsupported producer type %T", producer)
	}
	warped := *p
	warped.length = int(float64(p.length) / speed)
	return &warped, nil
}

// MakeVolume returns a copy of producer. levelDB is not applied or
// stored: the copy renders at the original level.
func (b *PipeBackend) MakeVolume(producer timeline.Producer, levelDB int) (timeline.Producer, error) {
	p, ok := producer.(*Producer)
	if !ok {
		return nil, fmt.Errorf("volume: unsupported producer type %T", producer)
	}
	scaled := *p
	return &scaled, nil
}

// Cut slices a producer's underlying signal to [in,out).
func (b *PipeBackend) Cut(producer timeline.Producer, in, out int) (timeline.Producer, error) {
	p, ok := producer.(*Producer)
	if !ok {
		return nil, fmt.Errorf("cut: unsupported producer type %T", producer)
	}
	if p.signal == nil {
		sliced := *p
		sliced.length = out - in
		return &sliced, nil
	}
	sliced := signal.Slice(p.signal, in, out)
	return &Producer{signal: sliced, sampleRate: p.sampleRate, length: sliced.Length()}, nil
}

// NewPlaylist returns an empty playlist ready for Append/Blank.
func (b *PipeBackend) NewPlaylist() timeline.Playlist {
	return &playlist{track: &Track{}, sampleRate: b.sampleRate}
}

// Append places producer immediately after the playlist's current end.
func (b *PipeBackend) Append(pl timeline.Playlist, producer timeline.Producer) error {
	p, ok := pl.(*playlist)
	if !ok {
		return fmt.Errorf("append: unsupported playlist type %T", pl)
	}
	prod, ok := producer.(*Producer)
	if !ok {
		return fmt.Errorf("append: unsupported producer type %T", producer)
	}
	if prod.signal != nil {
		p.track.AddClip(p.length, prod.signal)
	}
	p.length += prod.length
	return nil
}

// Blank appends frames of silence to the playlist, compiling a Space
// part of a PlaylistSection.
func (b *PipeBackend) Blank(pl timeline.Playlist, frames int) error {
	p, ok := pl.(*playlist)
	if !ok {
		return fmt.Errorf("blank: unsupported playlist type %T", pl)
	}
	p.length += frames
	return nil
}

// NewTractor returns an empty tractor ready for TractorInsertTrack.
func (b *PipeBackend) NewTractor() timeline.Tractor {
	return &tractor{mixer: &Mixer{}}
}

// TractorInsertTrack registers producer as track index within tractor;
// the tractor's Playtime becomes the longest track's length, matching
// a Mix section whose inner playlists all share the Mix's length.
func (b *PipeBackend) TractorInsertTrack(t timeline.Tractor, index int, producer timeline.Producer) error {
	tr, ok := t.(*tractor)
	if !ok {
		return fmt.Errorf("tractor_insert_track: unsupported tractor type %T", t)
	}
	prod, ok := producer.(*Producer)
	if !ok {
		return fmt.Errorf("tractor_insert_track: unsupported producer type %T", producer)
	}
	for len(tr.tracks) <= index {
		tr.tracks = append(tr.tracks, Producer{})
	}
	tr.tracks[index] = *prod
	if prod.length > tr.length {
		tr.length = prod.length
	}
	return nil
}

// PlantTransition checks that trackA and trackB are valid track
// indices of t and records nothing. The compiled mixer sums every
// sinked track equally, so no per-pair transition is applied.
func (b *PipeBackend) PlantTransition(t timeline.Tractor, trackA, trackB int) error {
	tr, ok := t.(*tractor)
	if !ok {
		return fmt.Errorf("plant_transition: unsupported tractor type %T", t)
	}
	if trackA < 0 || trackA >= len(tr.tracks) || trackB < 0 || trackB >= len(tr.tracks) {
		return fmt.Errorf("plant_transition: track index out of range (have %d tracks)", len(tr.tracks))
	}
	return nil
}

// renderSource resolves the pipe source a producer's render graph
// reads from, and any extra lines that must run alongside it. A plain
// Producer reads its own signal; a playlist compiles its clips through
// Track.Source; a tractor sums its tracks through Mixer, with one
// extra line per track feeding the mixer's sink.
func (b *PipeBackend) renderSource(producer timeline.Producer) (pipe.SourceAllocatorFunc, []pipe.Line, error) {
	switch p := producer.(type) {
	case *Producer:
		return p.sourceAllocator(), nil, nil
	case *playlist:
		return p.track.Source(p.sampleRate, 0, p.length), nil, nil
	case *tractor:
		var lines []pipe.Line
		for i := range p.tracks {
			src := p.tracks[i].sourceAllocator()
			if src == nil {
				continue
			}
			lines = append(lines, pipe.Line{Source: src, Sink: p.mixer.Sink()})
		}
		if len(lines) == 0 {
			// Mixer.Source panics if no track ever sinked into it
			// (no decoded tracks to mix, e.g. with no Decoder wired).
			return nil, nil, nil
		}
		return p.mixer.Source(), lines, nil
	default:
		return nil, nil, fmt.Errorf("unsupported producer type %T", producer)
	}
}

// writeSignal serializes sig's samples as little-endian float64s, the
// raw PCM dump RunConsumerToFile and RenderToFileAndCapture both write
// to disk; a production backend would hand this to a real encoder.
func writeSignal(f *os.File, sig signal.Signal) error {
	if sig == nil {
		return nil
	}
	floating, ok := sig.(signal.Floating)
	if !ok {
		floating = signal.Allocator{Channels: sig.Channels(), Capacity: sig.Length(), Length: sig.Length()}.Float64()
		signal.AsFloating(sig, floating)
	}
	buf := make([]byte, 8*floating.Len())
	for i := 0; i < floating.Len(); i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(floating.Sample(i)))
	}
	_, err := f.Write(buf)
	return err
}

// RunConsumerToFile renders producer through its compiled pipe graph
// (a playlist's clips, a tractor's mixed tracks, or a bare producer's
// own signal) and writes the result to target. Exists so ProxyCache's
// atomic-rename transcode flow and direct export both have a concrete
// sink to call.
func (b *PipeBackend) RunConsumerToFile(ctx context.Context, producer timeline.Producer, target string, progress func(float64)) error {
	source, extraLines, err := b.renderSource(producer)
	if err != nil {
		return fmt.Errorf("run_consumer_to_file: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer f.Close()
	progress(0)
	if source == nil {
		progress(1)
		return nil
	}
	asset := &Asset{}
	lines := append(extraLines, pipe.Line{Source: source, Sink: asset.Sink()})
	render, err := pipe.New(b.bufferSize, lines...)
	if err != nil {
		return fmt.Errorf("build render pipe for %s: %w", target, err)
	}
	if err := pipe.Wait(render.Start(ctx)); err != nil {
		return fmt.Errorf("render %s: %w", target, err)
	}
	if err := writeSignal(f, asset.Signal); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	progress(1)
	return nil
}

// RenderToFileAndCapture runs producer's render graph once, writing
// the result to target while also handing back an independent
// in-memory producer built from the very same decode: a Repeater sits
// between the one compiled source and two sinks (the file writer and
// the returned Asset), so a caller like ProxyCache.transcode that
// wants both a cached file and a ready-to-serve producer pays for one
// decode instead of two.
func (b *PipeBackend) RenderToFileAndCapture(ctx context.Context, producer timeline.Producer, target string, progress func(float64)) (timeline.Producer, error) {
	source, extraLines, err := b.renderSource(producer)
	if err != nil {
		return nil, fmt.Errorf("render_to_file_and_capture: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", target, err)
	}
	defer f.Close()
	progress(0)
	if source == nil {
		progress(1)
		return &Producer{sampleRate: b.sampleRate}, nil
	}
	repeater := &Repeater{}
	fileAsset := &Asset{}
	captured := &Asset{}
	lines := append(extraLines,
		pipe.Line{Source: source, Sink: repeater.Sink()},
		pipe.Line{Source: repeater.Source(), Sink: fileAsset.Sink()},
		pipe.Line{Source: repeater.Source(), Sink: captured.Sink()},
	)
	render, err := pipe.New(b.bufferSize, lines...)
	if err != nil {
		return nil, fmt.Errorf("build render pipe for %s: %w", target, err)
	}
	if err := pipe.Wait(render.Start(ctx)); err != nil {
		return nil, fmt.Errorf("render %s: %w", target, err)
	}
	if err := writeSignal(f, fileAsset.Signal); err != nil {
		return nil, fmt.Errorf("write %s: %w", target, err)
	}
	progress(1)
	return &Producer{signal: captured.Signal, sampleRate: captured.SampleRate(), length: captured.Signal.Length()}, nil
}
