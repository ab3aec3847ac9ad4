package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockbot-go/internal/actions"
	"github.com/stockpilot/stockbot-go/internal/ctxutil"
	"github.com/stockpilot/stockbot-go/internal/logger"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
	"github.com/stockpilot/stockbot-go/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAction runs fn as its body.
type stubAction struct {
	name string
	fn   func(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) []rasa.Event
}

func (s stubAction) Name() string { return s.name }

func (s stubAction) Run(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) []rasa.Event {
	return s.fn(ctx, d, tr)
}

type testServer struct {
	router  *gin.Engine
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T, opts ...HandlerOption) *testServer {
	t.Helper()

	registry := actions.NewRegistry()
	registry.Register(stubAction{name: "action_echo", fn: func(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) []rasa.Event {
		d.Utter("sender=" + ctxutil.GetSenderID(ctx) + " action=" + ctxutil.GetAction(ctx))
		return []rasa.Event{rasa.SlotSet("product_name", nil)}
	}})
	registry.Register(stubAction{name: "action_silent", fn: func(context.Context, *rasa.Dispatcher, *rasa.Tracker) []rasa.Event {
		return nil
	}})
	registry.Register(stubAction{name: "action_deadline", fn: func(ctx context.Context, d *rasa.Dispatcher, _ *rasa.Tracker) []rasa.Event {
		deadline, ok := ctx.Deadline()
		if ok {
			d.Utter(time.Until(deadline).Round(time.Second).String())
		}
		return nil
	}})
	registry.Register(stubAction{name: "action_panic", fn: func(context.Context, *rasa.Dispatcher, *rasa.Tracker) []rasa.Event {
		panic("boom")
	}})

	m := metrics.New(prometheus.NewRegistry())
	logs := &bytes.Buffer{}
	h := NewHandler(registry, m, logger.NewWithWriter("debug", logs), opts...)

	router := gin.New()
	h.RegisterRoutes(router)
	return &testServer{router: router, metrics: m, logs: logs}
}

func (s *testServer) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func callBody(action, sender string, slots map[string]any) string {
	body, _ := json.Marshal(map[string]any{
		"next_action": action,
		"sender_id":   sender,
		"tracker": map[string]any{
			"sender_id":      sender,
			"slots":          slots,
			"latest_message": map[string]any{"text": "hi", "entities": []any{}},
		},
		"domain":  map[string]any{},
		"version": "3.6.0",
	})
	return string(body)
}

func TestHandle_RunsAction(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, callBody("action_echo", "user-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"events": [{"event": "slot", "timestamp": null, "name": "product_name", "value": null}],
		"responses": [{
			"text": "sender=user-1 action=action_echo",
			"buttons": [], "elements": [], "custom": {}, "image": null, "response": null
		}]
	}`, w.Body.String())
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.WebhookRequestsTotal.WithLabelValues(statusOK)), 0)
}

func TestHandle_EmptyResultSerializesLists(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, callBody("action_silent", "user-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"events": [], "responses": []}`, w.Body.String())
}

func TestHandle_SenderFallsBackToTracker(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, `{"next_action": "action_echo", "tracker": {"sender_id": "from-tracker"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sender=from-tracker")
}

func TestHandle_UnknownAction(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, callBody("action_fly", "user-1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{
		"error": "No registered action found for name 'action_fly'.",
		"action_name": "action_fly"
	}`, w.Body.String())
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.WebhookRequestsTotal.WithLabelValues(statusUnknownAction)), 0)
	assert.Contains(t, s.logs.String(), `"error":"unknown action"`)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"next_action": `},
		{"missing action name", `{"sender_id": "user-1", "tracker": {}}`},
		{"wrong slot type", `{"next_action": "action_echo", "tracker": {"slots": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.post(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid action call")
		})
	}
}

func TestHandle_Panic(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, callBody("action_panic", "user-1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Action 'action_panic' failed.", "action_name": "action_panic"}`, w.Body.String())
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.WebhookRequestsTotal.WithLabelValues(statusPanic)), 0)
}

func TestHandle_ActionTimeout(t *testing.T) {
	s := newTestServer(t, WithActionTimeout(7*time.Second))

	w := s.post(t, callBody("action_deadline", "user-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp rasa.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, "7s", resp.Responses[0].Text)
}

func TestHandle_SenderRateLimit(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	limiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:       "sender",
		Burst:      2,
		RefillRate: 0.001,
		Metrics:    m,
	})
	t.Cleanup(limiter.Stop)

	s := newTestServer(t, WithSenderLimiter(limiter))

	for range 2 {
		w := s.post(t, callBody("action_echo", "user-1", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sender=user-1")
	}

	w := s.post(t, callBody("action_echo", "user-1", map[string]any{"language": "hi"}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp rasa.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Events)
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, actions.RateLimited.HI, resp.Responses[0].Text)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.WebhookRequestsTotal.WithLabelValues(statusRateLimited)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("sender")), 0)
	assert.Contains(t, s.logs.String(), `"error":"rate limit exceeded"`)

	// other senders keep their own budget
	w = s.post(t, callBody("action_echo", "user-2", nil))
	assert.Contains(t, w.Body.String(), "sender=user-2")
}

func TestListActions(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/actions", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"name": "action_deadline"},
		{"name": "action_echo"},
		{"name": "action_panic"},
		{"name": "action_silent"}
	]`, w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
