// Package metrics exposes render measurements as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	bizdoc "github.com/alnah/go-bizdoc"
)

const namespace = "bizdoc"

// Recorder implements bizdoc.Metrics.
type Recorder struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sections *prometheus.HistogramVec
	engines  prometheus.Gauge
}

var _ bizdoc.Metrics = (*Recorder)(nil)

// New creates unregistered collectors.
func New() *Recorder {
	return &Recorder{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "renders_total", Help: "Render calls by format and outcome."},
			[]string{"format", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Render latency by format.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"format"},
		),
		sections: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_sections",
				Help:      "Sections per rendered document.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"format"},
		),
		engines: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "engines_in_use", Help: "Browser engines currently running."},
		),
	}
}

// RegisterCollectors registers every collector with reg.
func (r *Recorder) RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(r.renders, r.duration, r.sections, r.engines)
}

// ObserveRender records one render call. A nil error category counts as
// "ok".
func (r *Recorder) ObserveRender(format string, category bizdoc.Category, elapsed time.Duration, sections int) {
	outcome := string(category)
	if category == bizdoc.CategoryNone {
		outcome = "ok"
	}
	r.renders.WithLabelValues(format, outcome).Inc()
	r.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	if sections > 0 {
		r.sections.WithLabelValues(format).Observe(float64(sections))
	}
}

// EngineStarted increments the running engine gauge.
func (r *Recorder) EngineStarted() { r.engines.Inc() }

// EngineStopped decrements the running engine gauge.
func (r *Recorder) EngineStopped() { r.engines.Dec() }
