package sampler

import "github.com/prometheus/client_golang/prometheus"

var (
	filesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxsampler_files_written_total",
		Help: "CSV files written",
	})
	samplesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxsampler_samples_written_total",
		Help: "Sample rows written across all files",
	})
	sampleFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxsampler_sample_failures_total",
		Help: "Device sampling failures",
	})
	daysSampled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxsampler_days_sampled_total",
		Help: "Completed station walks",
	})
	lastSampleSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wxsampler_last_sample_success_timestamp_seconds",
		Help: "Timestamp of the last completed station walk",
	})
)

// MetricsCollectors returns the Prometheus collectors for the export
// pipeline.
func MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		filesWritten,
		samplesWritten,
		sampleFailures,
		daysSampled,
		lastSampleSuccess,
	}
}
