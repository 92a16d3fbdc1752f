package mediabackend

import (
	"context"

	"pipelined.dev/pipe"
	"pipelined.dev/pipe/mutable"
	"pipelined.dev/signal"
)

// Asset captures a sinked signal into an in-memory buffer. It backs
// every producer a PipeBackend holds in full once decoded: a file
// source's decoded proxy in MakeFileProducer, and the render output
// captured alongside a written file in RunConsumerToFile and
// RenderToFileAndCapture. A text source's synthesized tone is built
// directly, without going through a sink.
type Asset struct {
	signal.Signal
	sampleRate signal.Frequency
}

// SampleRate returns a sample rate of the asset.
func (a *Asset) SampleRate() signal.Frequency {
	return a.sampleRate
}

// Sink stores signal data in a buffer of the asset's existing
// signal.Signed or signal.Unsigned type, or a signal.Floating buffer
// otherwise.
func (a *Asset) Sink() pipe.SinkAllocatorFunc {
	switch a.Signal.(type) {
	case signal.Signed:
		return a.sinkSigned()
	case signal.Unsigned:
		return a.sinkUnsigned()
	default:
		return a.sinkFloating()
	}
}

func (a *Asset) sinkFloating() pipe.SinkAllocatorFunc {
	return func(mut mutable.Context, bufferSize int, props pipe.SignalProperties) (pipe.Sink, error) {
		a.sampleRate = props.SampleRate
		data := floatingAsset(a.Signal, props.Channels, bufferSize)
		return pipe.Sink{
			SinkFunc: func(in signal.Floating) error {
				data = data.Append(in)
				return nil
			},
			FlushFunc: func(context.Context) error {
				a.Signal = data
				return nil
			},
		}, nil
	}
}

// floatingAsset returns preallocated bufer if provided otherwise allocates new.
func floatingAsset(s signal.Signal, channels, bufferSize int) signal.Floating {
	if s != nil {
		return s.(signal.Floating)
	}
	return signal.Allocator{
		Channels: channels,
		Capacity: bufferSize,
	}.Float64()
}

func (a *Asset) sinkSigned() pipe.SinkAllocatorFunc {
	return func(mut mutable.Context, bufferSize int, props pipe.SignalProperties) (pipe.Sink, error) {
		a.sampleRate = props.SampleRate
		data := a.Signal.(signal.Signed)
		// increment buffer is used only to grow the capacity of the data slice
		inc := signal.Allocator{
			Channels: props.Channels,
			Capacity: bufferSize,
			Length:   bufferSize,
		}.Int8(signal.MaxBitDepth)
		pos := 0
		return pipe.Sink{
			SinkFunc: func(in signal.Floating) error {
				data = data.Append(inc)
				pos += signal.FloatingAsSigned(in, data.Slice(pos, pos+bufferSize))
				return nil
			},
			FlushFunc: func(context.Context) error {
				a.Signal = data
				return nil
			},
		}, nil
	}
}

func (a *Asset) sinkUnsigned() pipe.SinkAllocatorFunc {
	return func(mut mutable.Context, bufferSize int, props pipe.SignalProperties) (pipe.Sink, error) {
		a.sampleRate = props.SampleRate
		data := a.Signal.(signal.Unsigned)
		// increment buffer is used only to grow the capacity of the data slice
		inc := signal.Allocator{
			Channels: props.Channels,
			Capacity: bufferSize,
			Length:   bufferSize,
		}.Uint8(signal.MaxBitDepth)
		pos := 0
		return pipe.Sink{
			SinkFunc: func(in signal.Floating) error {
				data = data.Append(inc)
				pos += signal.FloatingAsUnsigned(in, data.Slice(pos, pos+bufferSize))
				return nil
			},
			FlushFunc: func(context.Context) error {
				a.Signal = data
				return nil
			},
		}, nil
	}
}
