package mediabackend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"pipelined.dev/pipe"
	"pipelined.dev/pipe/mock"
	"pipelined.dev/signal"
)

func TestTrackOverlapResolution(t *testing.T) {
	channels := 1
	alloc := signal.Allocator{
		Channels: channels,
		Capacity: 10,
		Length:   10,
	}
	sample1 := alloc.Float64()
	signal.WriteFloat64([]float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, sample1)
	sample2 := alloc.Float64()
	signal.WriteFloat64([]float64{20, 21, 22, 23, 24, 25, 26, 27, 28, 29}, sample2)
	sampleRate := signal.Frequency(44100)

	type clip struct {
		position int
		data     signal.Floating
	}
	tests := []struct {
		clips    []clip
		expected []float64
		msg      string
	}{
		{
			clips: []clip{
				{3, sample1.Slice(3, 4)},
				{4, sample2.Slice(5, 8)},
			},
			expected: []float64{0, 0, 0, 13, 25, 26, 27},
			msg:      "sequence",
		},
		{
			clips: []clip{
				{2, sample1.Slice(3, 6)},
				{4, sample2.Slice(5, 7)},
			},
			expected: []float64{0, 0, 13, 14, 25, 26},
			msg:      "overlap next",
		},
		{
			clips: []clip{
				{2, sample1.Slice(3, 5)},
				{2, sample2.Slice(3, 8)},
			},
			expected: []float64{0, 0, 23, 24, 25, 26, 27},
			msg:      "overlap single completely",
		},
	}

	for _, test := range tests {
		track := &Track{}
		for _, c := range test.clips {
			track.AddClip(c.position, c.data)
		}

		sink := &mock.Sink{}

		p, _ := pipe.New(2,
			pipe.Line{
				Source: track.Source(sampleRate, 0, 0),
				Sink:   sink.Sink(),
			},
		)
		_ = pipe.Wait(p.Start(context.Background()))

		result := make([]float64, sink.Values.Len())
		signal.ReadFloat64(sink.Values, result)

		assert.Equal(t, test.expected, result, test.msg)
	}
}
