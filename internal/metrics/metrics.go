// Package metrics provides Prometheus collectors for the intake service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all service-level collectors. A nil *Metrics is valid and
// records nothing, so tests can pass nil without stubbing.
type Metrics struct {
	// Submission pipeline outcomes by result
	SubmissionOutcome *prometheus.CounterVec

	// Notification attempts by provider and result
	NotifyOutcome *prometheus.CounterVec

	// Admin listing query latency
	AdminQueryLatency prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		SubmissionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "interest_submissions_total",
			Help: "Submission pipeline outcomes by result",
		}, []string{"result"}), // result: accepted, invalid, rejected, duplicate, error

		NotifyOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "interest_notifications_total",
			Help: "Notification attempts by provider and result",
		}, []string{"provider", "result"}), // result: sent, failed

		AdminQueryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "interest_admin_query_duration_seconds",
			Help:    "Duration of admin listing queries including count and filter vocabulary",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncSubmission records a submission pipeline outcome.
func (m *Metrics) IncSubmission(result string) {
	if m != nil {
		m.SubmissionOutcome.WithLabelValues(result).Inc()
	}
}

// IncNotify records a notification attempt outcome.
func (m *Metrics) IncNotify(provider, result string) {
	if m != nil {
		m.NotifyOutcome.WithLabelValues(provider, result).Inc()
	}
}

// ObserveAdminQuery records the duration of one admin listing request.
func (m *Metrics) ObserveAdminQuery(d time.Duration) {
	if m != nil {
		m.AdminQueryLatency.Observe(d.Seconds())
	}
}
