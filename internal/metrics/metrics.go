// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Action outcomes recorded on stockbot_actions_total.
const (
	OutcomeSuccess      = "success"       // Action ran its happy path
	OutcomeNotFound     = "not_found"     // Product lookup found nothing
	OutcomeUnauthorized = "unauthorized"  // No auth token in metadata
	OutcomeMissingInput = "missing_input" // Asked the user for an entity
	OutcomeRejected     = "rejected"      // Business rule refused (insufficient stock)
	OutcomeError        = "error"         // Backend or internal failure
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Action metrics
	ActionsTotal          *prometheus.CounterVec
	ActionDurationSeconds *prometheus.HistogramVec

	// Backend metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendDurationSeconds *prometheus.HistogramVec

	// Webhook metrics
	WebhookRequestsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
	RateLimiterSenders prometheus.Gauge

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		ActionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockbot_actions_total",
				Help: "Total number of action runs by action and outcome",
			},
			[]string{"action", "outcome"},
		),

		ActionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockbot_action_duration_seconds",
				Help:    "Action run duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"action"},
		),

		BackendRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockbot_backend_requests_total",
				Help: "Total number of inventory backend requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // status: HTTP code, or "error" for transport failures
		),

		BackendDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockbot_backend_duration_seconds",
				Help:    "Inventory backend request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockbot_webhook_requests_total",
				Help: "Total number of action-server webhook calls by status",
			},
			[]string{"status"}, // status: ok, bad_request, unknown_action, rate_limited, panic
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockbot_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"},
		),

		RateLimiterSenders: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "stockbot_rate_limiter_active_senders",
				Help: "Number of senders with a live rate limit bucket",
			},
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockbot_singleflight_dedup_total",
				Help: "Total number of item lookups served by an in-flight identical request",
			},
			[]string{"endpoint"},
		),
	}
}

// RecordAction records one action run.
func (m *Metrics) RecordAction(action, outcome string, duration float64) {
	m.ActionsTotal.WithLabelValues(action, outcome).Inc()
	m.ActionDurationSeconds.WithLabelValues(action).Observe(duration)
}

// RecordBackendRequest records one backend call.
func (m *Metrics) RecordBackendRequest(endpoint, status string, duration float64) {
	m.BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.BackendDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordWebhook records the outcome of a webhook call.
func (m *Metrics) RecordWebhook(status string) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRateLimiterSenders sets the number of tracked senders.
func (m *Metrics) SetRateLimiterSenders(count int) {
	m.RateLimiterSenders.Set(float64(count))
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(endpoint string) {
	m.SingleflightDedupTotal.WithLabelValues(endpoint).Inc()
}
