package mediabackend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"pipelined.dev/pipe"
	"pipelined.dev/pipe/mock"
	"pipelined.dev/signal"
)

func TestRepeaterFanOut(t *testing.T) {
	const bufferSize = 512
	sampleRate := signal.Frequency(44100)
	source := &mock.Source{
		Limit:      10 * bufferSize,
		Channels:   2,
		SampleRate: sampleRate,
	}
	repeater := &Repeater{}
	sink1 := &mock.Sink{Discard: true}
	sink2 := &mock.Sink{Discard: true}

	p, err := pipe.New(bufferSize,
		pipe.Line{
			Source: source.Source(),
			Sink:   repeater.Sink(),
		},
		pipe.Line{
			Source: repeater.Source(),
			Sink:   sink1.Sink(),
		},
		pipe.Line{
			Source: repeater.Source(),
			Sink:   sink2.Sink(),
		},
	)
	assert.NoError(t, err)
	assert.NoError(t, pipe.Wait(p.Start(context.Background())))

	assert.Equal(t, 10*bufferSize, sink1.Counter.Samples)
	assert.Equal(t, 10*bufferSize, sink2.Counter.Samples)
}
