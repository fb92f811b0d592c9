// Package metric provides Prometheus-based metrics for the semtransit
// pipeline.
//
// A batch run is short-lived, so the package exposes two consumption paths:
// an optional HTTP handler scraped while the run is in flight, and direct
// gathering at the end of the run for a logged summary.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the pipeline metrics with their backing Prometheus
// registry.
type Registry struct {
	prometheusRegistry *prometheus.Registry

	// Metrics holds the core pipeline metrics.
	Metrics *Metrics
}

// NewRegistry creates a registry with all pipeline metrics and Go runtime
// collectors registered.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	r := &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            NewMetrics(),
	}

	// Register never fails on a fresh registry; collector names are
	// statically distinct.
	if err := r.Metrics.Register(prometheusRegistry); err != nil {
		panic(err)
	}

	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
}
