// Package middleware provides cross-cutting concerns for the assessment
// service.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics records assessment throughput, latency, and outcome
// counts. Metrics are registered on the supplied registerer so tests and
// embedded uses can isolate their own registries instead of fighting over
// the global one.
type PrometheusMetrics struct {
	assessmentsTotal  *prometheus.CounterVec
	assessmentLatency *prometheus.HistogramVec
	requestsInFlight  prometheus.Gauge
	sampleCount       *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// its collectors with reg. Pass prometheus.DefaultRegisterer for the
// process-wide registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		assessmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_assessments_total",
				Help: "Total number of assessments executed, by method and outcome.",
			},
			[]string{"method", "status"},
		),
		assessmentLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verdict_assessment_duration_seconds",
				Help:    "Wall-clock time of assessment execution.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "verdict_requests_in_flight",
				Help: "Number of assessment requests currently being served.",
			},
		),
		sampleCount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verdict_monte_carlo_samples",
				Help:    "Trial counts of Monte Carlo runs.",
				Buckets: prometheus.ExponentialBuckets(100, 10, 5),
			},
			[]string{"method"},
		),
	}
}

// RecordAssessment records one finished assessment with its outcome and
// duration. status is "ok" or "error".
func (pm *PrometheusMetrics) RecordAssessment(method, status string, duration time.Duration) {
	pm.assessmentsTotal.WithLabelValues(method, status).Inc()
	pm.assessmentLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordSamples records the trial count of a Monte Carlo run.
func (pm *PrometheusMetrics) RecordSamples(method string, samples int) {
	pm.sampleCount.WithLabelValues(method).Observe(float64(samples))
}

// RequestStarted marks a request as in flight; the returned func marks it
// finished and is safe to defer.
func (pm *PrometheusMetrics) RequestStarted() func() {
	pm.requestsInFlight.Inc()
	return pm.requestsInFlight.Dec
}
