package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal  *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	dedupSize     prometheus.Gauge
	sendLatency   prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigrelay_signals_total",
				Help: "Signal webhook outcomes",
			},
			[]string{"result"},
		),
		commandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigrelay_commands_total",
				Help: "Chat commands handled by kind",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigrelay_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		dedupSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sigrelay_dedup_entries",
				Help: "Current dedup cache entry count",
			},
		),
		sendLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sigrelay_send_duration_seconds",
				Help:    "Outbound chat send latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordSignal records a signal webhook outcome (accepted, deduped, rejected).
func (r *Recorder) RecordSignal(result string) {
	r.signalsTotal.WithLabelValues(result).Inc()
}

// RecordCommand records a handled chat command.
func (r *Recorder) RecordCommand(kind string) {
	r.commandsTotal.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDedupSize records the dedup cache entry count.
func (r *Recorder) RecordDedupSize(n int) {
	r.dedupSize.Set(float64(n))
}

// RecordSendLatency records outbound send latency in seconds.
func (r *Recorder) RecordSendLatency(seconds float64) {
	r.sendLatency.Observe(seconds)
}
