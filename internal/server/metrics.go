package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"wxsampler/internal/netatmo"
	"wxsampler/internal/sampler"
)

// NewRegistry assembles the daemon's metrics registry from the package
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	for _, collector := range netatmo.MetricsCollectors() {
		registry.MustRegister(collector)
	}
	for _, collector := range sampler.MetricsCollectors() {
		registry.MustRegister(collector)
	}
	return registry
}
