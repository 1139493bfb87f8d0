package netatmo

import "github.com/prometheus/client_golang/prometheus"

var (
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wxsampler_netatmo_requests_total",
			Help: "Netatmo API requests by endpoint",
		},
		[]string{"endpoint"},
	)
	apiErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wxsampler_netatmo_request_errors_total",
			Help: "Failed Netatmo API requests by endpoint",
		},
		[]string{"endpoint"},
	)
	tokenExchanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wxsampler_netatmo_token_exchanges_total",
			Help: "Successful token exchanges and refreshes",
		},
	)
	tokenFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wxsampler_netatmo_token_failures_total",
			Help: "Failed token exchanges and refreshes",
		},
	)
)

// MetricsCollectors returns the Prometheus collectors for the API client.
func MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{apiRequests, apiErrors, tokenExchanges, tokenFailures}
}
