// Package metrics exposes playback activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guidoenr/sortlights/internal/sorting"
)

const namespace = "sortlights"

// Recorder owns an isolated registry so several instances can coexist in
// tests.
type Recorder struct {
	registry  *prometheus.Registry
	runs      *prometheus.CounterVec
	steps     *prometheus.CounterVec
	compares  *prometheus.CounterVec
	swaps     *prometheus.CounterVec
	writes    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	delay     prometheus.Gauge
	selection prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Recorder {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"algorithm"})
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs:     counter("runs_total", "Completed sort runs."),
		steps:    counter("steps_total", "Observable highlight/wait/commit steps."),
		compares: counter("compares_total", "Value comparisons."),
		swaps:    counter("swaps_total", "Swaps applied to the array."),
		writes:   counter("writes_total", "Single-slot writes applied to the array."),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"algorithm"}),
		delay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "step_delay_seconds",
			Help:      "Current step delay.",
		}),
		selection: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_algorithm",
			Help:      "Index of the algorithm used for the next cycle.",
		}),
	}

	r.registry.MustRegister(
		r.runs, r.steps, r.compares, r.swaps, r.writes, r.duration,
		r.delay, r.selection,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveRun adds the counters of one finished run under label.
func (r *Recorder) ObserveRun(label string, c sorting.Counters, seconds float64) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(label).Inc()
	r.steps.WithLabelValues(label).Add(float64(c.Steps))
	r.compares.WithLabelValues(label).Add(float64(c.Compares))
	r.swaps.WithLabelValues(label).Add(float64(c.Swaps))
	r.writes.WithLabelValues(label).Add(float64(c.Writes))
	r.duration.WithLabelValues(label).Observe(seconds)
}

// SetRuntime records the current delay and selection.
func (r *Recorder) SetRuntime(delaySeconds float64, algorithm int) {
	if r == nil {
		return
	}
	r.delay.Set(delaySeconds)
	r.selection.Set(float64(algorithm))
}

// Registry exposes the underlying registry for tests and custom handlers.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
