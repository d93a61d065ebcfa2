package widget

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "chartfolio"
	subsystem = "widget"
)

// Metrics counts rebuilds and failures per chart kind.
type Metrics struct {
	Rebuilds       *prometheus.CounterVec
	LoadErrors     *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
}

// NewMetrics creates unregistered widget metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rebuilds_total",
			Help:      "Total number of chart rebuilds.",
		}, []string{"kind", "result"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "load_errors_total",
			Help:      "Total number of data documents that failed to load.",
		}, []string{"kind"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "build_seconds",
			Help:      "Time spent loading and rendering one chart.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(kind Kind, start time.Time, result string) {
	if m == nil {
		return
	}
	m.Rebuilds.WithLabelValues(string(kind), result).Inc()
	m.RenderDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if result == resultLoadError {
		m.LoadErrors.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.Rebuilds.Describe(ch)
	m.LoadErrors.Describe(ch)
	m.RenderDuration.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.Rebuilds.Collect(ch)
	m.LoadErrors.Collect(ch)
	m.RenderDuration.Collect(ch)
}

// check interfaces
var (
	_ prometheus.Collector = (*Metrics)(nil)
)
