// Package webhook serves the action-server endpoints the dialogue engine
// calls: running a named action, listing actions and a health probe.
package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpilot/stockbot-go/internal/actions"
	"github.com/stockpilot/stockbot-go/internal/config"
	"github.com/stockpilot/stockbot-go/internal/ctxutil"
	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/i18n"
	"github.com/stockpilot/stockbot-go/internal/logger"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
	"github.com/stockpilot/stockbot-go/internal/ratelimit"
	"github.com/stockpilot/stockbot-go/internal/sentry"
)

// Webhook outcomes recorded on stockbot_webhook_requests_total.
const (
	statusOK            = "ok"
	statusBadRequest    = "bad_request"
	statusUnknownAction = "unknown_action"
	statusRateLimited   = "rate_limited"
	statusPanic         = "panic"
)

// Handler runs actions on behalf of the dialogue engine.
type Handler struct {
	registry      *actions.Registry
	metrics       *metrics.Metrics
	logger        *logger.Logger
	senderLimiter *ratelimit.KeyedLimiter
	actionTimeout time.Duration
}

// HandlerOption configures optional Handler behavior.
type HandlerOption func(*Handler)

// WithActionTimeout bounds the time a single action may run.
func WithActionTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		h.actionTimeout = timeout
	}
}

// WithSenderLimiter enables per-sender rate limiting.
func WithSenderLimiter(limiter *ratelimit.KeyedLimiter) HandlerOption {
	return func(h *Handler) {
		h.senderLimiter = limiter
	}
}

// NewHandler creates a webhook handler serving the actions in registry.
func NewHandler(registry *actions.Registry, m *metrics.Metrics, log *logger.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	h := &Handler{
		registry:      registry,
		metrics:       m,
		logger:        log.WithModule("webhook"),
		actionTimeout: config.ActionProcessing,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the action-server endpoints on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/webhook", h.Handle)
	r.GET("/actions", h.ListActions)
	r.GET("/health", h.Health)
}

// Handle runs the action named in the call and returns its events and
// utterances. An unknown action yields 404; a panicking action yields 500.
func (h *Handler) Handle(c *gin.Context) {
	var call rasa.ActionCall
	if err := c.ShouldBindJSON(&call); err != nil {
		h.logger.WithError(err).Warn("Invalid action call")
		h.record(statusBadRequest)
		c.JSON(http.StatusBadRequest, rasa.ErrorResponse{Error: "Invalid action call: " + err.Error()})
		return
	}

	senderID := call.SenderID
	if senderID == "" {
		senderID = call.Tracker.SenderID
	}

	reqCtx := ctxutil.WithAction(ctxutil.WithSenderID(c.Request.Context(), senderID), call.NextAction)
	log := h.logger

	action, ok := h.registry.Get(call.NextAction)
	if !ok {
		log.WithError(errors.ErrUnknownAction).WarnContext(reqCtx, "Unknown action requested")
		h.record(statusUnknownAction)
		c.JSON(http.StatusNotFound, rasa.UnknownAction(call.NextAction))
		return
	}

	if h.senderLimiter != nil && !h.senderLimiter.Allow(senderID) {
		log.WithError(errors.ErrRateLimitExceeded).WarnContext(reqCtx, "Sender rate limit exceeded")
		h.record(statusRateLimited)
		d := rasa.NewDispatcher()
		d.Utter(actions.RateLimited.Pick(i18n.FromSlot(call.Tracker.Slot("language"))))
		c.JSON(http.StatusOK, rasa.NewActionResponse(nil, d.Responses()))
		return
	}

	// Detached from the request: only the action timeout cancels the run.
	ctx := sentry.WithHubFrom(ctxutil.PreserveTracing(reqCtx), reqCtx)
	ctx, cancel := context.WithTimeout(ctx, h.actionTimeout)
	defer cancel()

	start := time.Now()
	events, responses, err := h.run(ctx, action, &call.Tracker)
	if err != nil {
		log.WithError(err).ErrorContext(ctx, "Action panicked")
		h.record(statusPanic)
		c.JSON(http.StatusInternalServerError, rasa.ErrorResponse{
			Error:      fmt.Sprintf("Action '%s' failed.", call.NextAction),
			ActionName: call.NextAction,
		})
		return
	}

	h.record(statusOK)
	log.WithField("duration_ms", time.Since(start).Milliseconds()).
		WithField("events", len(events)).
		InfoContext(ctx, "Action completed")
	c.JSON(http.StatusOK, rasa.NewActionResponse(events, responses))
}

// run executes an action, converting a panic into an error.
func (h *Handler) run(ctx context.Context, action actions.Action, tr *rasa.Tracker) (events []rasa.Event, responses []rasa.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			sentry.RecoverWithContext(ctx, r)
			err = fmt.Errorf("action %s panicked: %v", action.Name(), r)
		}
	}()

	d := rasa.NewDispatcher()
	events = action.Run(ctx, d, tr)
	return events, d.Responses(), nil
}

// ListActions returns the names of all registered actions.
func (h *Handler) ListActions(c *gin.Context) {
	names := h.registry.Names()
	list := make([]rasa.ActionInfo, 0, len(names))
	for _, name := range names {
		list = append(list, rasa.ActionInfo{Name: name})
	}
	c.JSON(http.StatusOK, list)
}

// Health is the probe the dialogue engine uses before calling actions.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) record(status string) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(status)
	}
}
