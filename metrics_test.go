package timeline

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsCollectorsIncludesEveryField(t *testing.T) {
	m := NewMetrics("test_metrics")
	assert.Len(t, m.Collectors(), 6)
}

func TestMetricsStatusSinkUpdatesGaugeAndForwards(t *testing.T) {
	m := NewMetrics("test_metrics_sink")
	var forwarded string
	var forwardedDepth int
	sink := NewMetricsStatusSink(m, statusSinkFunc(func(description string, depth int) {
		forwarded = description
		forwardedDepth = depth
	}))

	sink.SetStatus("working", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BackgroundQueueDepth))
	assert.Equal(t, "working", forwarded)
	assert.Equal(t, 3, forwardedDepth)
}

type statusSinkFunc func(description string, queueDepth int)

func (f statusSinkFunc) SetStatus(description string, queueDepth int) {
	f(description, queueDepth)
}
