package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the mockup service collectors.
type Metrics struct {
	registry *prometheus.Registry

	GenerateDuration *prometheus.HistogramVec
	GenerateErrors   *prometheus.CounterVec
	FontFallbacks    prometheus.Counter
}

// New registers the service collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GenerateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mockup_generate_duration_seconds",
			Help:    "Time spent generating a mockup, by artwork source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		GenerateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mockup_generate_errors_total",
			Help: "Failed mockup requests, by error kind.",
		}, []string{"kind"}),
		FontFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockup_font_fallbacks_total",
			Help: "Times the caption font could not be loaded and the default was used.",
		}),
	}
	m.registry.MustRegister(
		m.GenerateDuration,
		m.GenerateErrors,
		m.FontFallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
