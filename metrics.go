package timeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus collectors the engine updates as it
// runs. Registering them is the caller's responsibility (Collectors
// lists them for that) — the core never touches a global registry
// directly.
type Metrics struct {
	TransactionsCommitted prometheus.Counter
	TransactionsRolledBack prometheus.Counter
	SectionsComputed      prometheus.Counter
	ProxyTranscodes        prometheus.Counter
	ProxyCacheHits          prometheus.Counter
	BackgroundQueueDepth   prometheus.Gauge
}

// NewMetrics builds a fresh Metrics set with the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TransactionsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "transactions_committed_total",
			Help: "Number of transactions committed.",
		}),
		TransactionsRolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "transactions_rolled_back_total",
			Help: "Number of transactions rolled back.",
		}),
		SectionsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sections_computed_total",
			Help: "Number of times split_into_sections ran.",
		}),
		ProxyTranscodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "proxy_transcodes_total",
			Help: "Number of background proxy transcodes started.",
		}),
		ProxyCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "proxy_cache_hits_total",
			Help: "Number of proxy cache hits avoiding a transcode.",
		}),
		BackgroundQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "background_queue_depth",
			Help: "Current BackgroundWorker queue depth.",
		}),
	}
}

// Collectors returns every collector, for bulk registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TransactionsCommitted,
		m.TransactionsRolledBack,
		m.SectionsComputed,
		m.ProxyTranscodes,
		m.ProxyCacheHits,
		m.BackgroundQueueDepth,
	}
}

// metricsStatusSink adapts a Metrics gauge to the StatusSink interface
// BackgroundWorker reports through.
type metricsStatusSink struct {
	metrics *Metrics
	inner   StatusSink
}

// NewMetricsStatusSink wraps inner (e.g. a pterm spinner) so every
// status update also updates BackgroundQueueDepth.
func NewMetricsStatusSink(metrics *Metrics, inner StatusSink) StatusSink {
	return &metricsStatusSink{metrics: metrics, inner: inner}
}

func (s *metricsStatusSink) SetStatus(description string, queueDepth int) {
	s.metrics.BackgroundQueueDepth.Set(float64(queueDepth))
	if s.inner != nil {
		s.inner.SetStatus(description, queueDepth)
	}
}
