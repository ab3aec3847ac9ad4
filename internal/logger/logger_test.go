package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stockpilot/stockbot-go/internal/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNewWithWriter_RenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("backend slow")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "backend slow", entry["message"])
	assert.Equal(t, "warning", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "msg")
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("kept")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithModule("inventory").
		WithField("endpoint", "/items/").
		WithError(errors.New("timeout")).
		WithFields(map[string]any{"status": 502}).
		Error("request failed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "inventory", entry["module"])
	assert.Equal(t, "/items/", entry["endpoint"])
	assert.Equal(t, "timeout", entry["error"])
	assert.EqualValues(t, 502, entry["status"])
}

func TestContextHandler_AddsTracingValues(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(context.Context) context.Context
		expected map[string]string
		absent   []string
	}{
		{
			name: "all values",
			setup: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithSenderID(ctx, "sender-42")
				ctx = ctxutil.WithAction(ctx, "action_low_stock")
				return ctxutil.WithRequestID(ctx, "req-1")
			},
			expected: map[string]string{
				"sender_id":  "sender-42",
				"action":     "action_low_stock",
				"request_id": "req-1",
			},
		},
		{
			name: "partial values",
			setup: func(ctx context.Context) context.Context {
				return ctxutil.WithSenderID(ctx, "sender-7")
			},
			expected: map[string]string{"sender_id": "sender-7"},
			absent:   []string{"action", "request_id"},
		},
		{
			name:   "empty context",
			setup:  func(ctx context.Context) context.Context { return ctx },
			absent: []string{"sender_id", "action", "request_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter("info", &buf)

			log.InfoContext(tt.setup(context.Background()), "handled")

			entry := decodeLine(t, &buf)
			for k, v := range tt.expected {
				assert.Equal(t, v, entry[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}

// failingHandler writes through to inner but always reports an error.
type failingHandler struct {
	inner slog.Handler
}

func (h failingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h failingHandler) Handle(ctx context.Context, r slog.Record) error {
	_ = h.inner.Handle(ctx, r)
	return errors.New("remote down")
}

func (h failingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return failingHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h failingHandler) WithGroup(name string) slog.Handler {
	return failingHandler{inner: h.inner.WithGroup(name)}
}

func TestTeeHandler(t *testing.T) {
	var local, remote bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelInfo}),
		failingHandler{inner: slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelError})},
	)
	log := slog.New(h).With("service", "stockbot")

	log.Info("local only")
	assert.Contains(t, local.String(), "local only")
	assert.NotContains(t, remote.String(), "local only")

	// remote failures never reach the caller
	r := slog.NewRecord(time.Now(), slog.LevelError, "both", 0)
	require.NoError(t, h.Handle(context.Background(), r))
	log.Error("shipped")
	assert.Contains(t, local.String(), "shipped")
	assert.Contains(t, remote.String(), "shipped")
	assert.Contains(t, remote.String(), `"service":"stockbot"`)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewTeeHandler_NilRemote(t *testing.T) {
	local := slog.NewJSONHandler(io.Discard, nil)
	assert.Same(t, local, newTeeHandler(local, nil))
}

func TestNewWithOptions_ForwardsToBetterStack(t *testing.T) {
	type shipment struct {
		auth string
		body string
	}
	received := make(chan shipment, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- shipment{auth: r.Header.Get("Authorization"), body: string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	var local bytes.Buffer
	log := NewWithOptions("info", &local, Options{
		BetterStackToken:    "bs-token",
		BetterStackEndpoint: srv.URL + "/",
	})

	log.Warn("stock adjusted remotely")
	assert.Contains(t, local.String(), "stock adjusted remotely")

	select {
	case got := <-received:
		assert.Equal(t, "Bearer bs-token", got.auth)
		assert.Contains(t, got.body, "stock adjusted remotely")
	case <-time.After(5 * time.Second):
		t.Fatal("record was not forwarded to Better Stack")
	}
}
