package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	assert.NotNil(t, m.ActionsTotal)
	assert.NotNil(t, m.ActionDurationSeconds)
	assert.NotNil(t, m.BackendRequestsTotal)
	assert.NotNil(t, m.BackendDurationSeconds)
	assert.NotNil(t, m.WebhookRequestsTotal)
	assert.NotNil(t, m.RateLimiterDropped)
	assert.NotNil(t, m.RateLimiterSenders)
	assert.NotNil(t, m.SingleflightDedupTotal)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	assert.Panics(t, func() { New(registry) })
}

func TestRecordAction(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAction("action_check_stock", OutcomeSuccess, 0.2)
	m.RecordAction("action_check_stock", OutcomeSuccess, 0.1)
	m.RecordAction("action_check_stock", OutcomeNotFound, 0.1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("action_check_stock", OutcomeSuccess)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("action_check_stock", OutcomeNotFound)), 1e-9)
}

func TestRecordBackendRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordBackendRequest("items_search", "200", 0.05)
	m.RecordBackendRequest("items_search", "error", 1.2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("items_search", "200")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("items_search", "error")), 1e-9)
}

func TestRateLimiterMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRateLimiterDrop("sender")
	m.SetRateLimiterSenders(3)
	m.RecordWebhook("rate_limited")
	m.RecordSingleflightDedup("items_search")

	assert.InDelta(t, 1, testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("sender")), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(m.RateLimiterSenders), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookRequestsTotal.WithLabelValues("rate_limited")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SingleflightDedupTotal.WithLabelValues("items_search")), 1e-9)
}
