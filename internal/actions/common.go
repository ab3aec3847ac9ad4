package actions

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/i18n"
	"github.com/stockpilot/stockbot-go/internal/rasa"
	"github.com/stockpilot/stockbot-go/internal/sentry"
)

// authToken returns the bearer token carried in the latest message metadata.
func authToken(tr *rasa.Tracker) (string, error) {
	token, _ := tr.Metadata(metadataToken).(string)
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.ErrUnauthorized
	}
	return token, nil
}

// requireToken is authToken with the refusal logged.
func (h *Handlers) requireToken(ctx context.Context, tr *rasa.Tracker) (string, bool) {
	token, err := authToken(tr)
	if err != nil {
		h.logger.WithError(err).InfoContext(ctx, "Action refused without auth token")
		return "", false
	}
	return token, true
}

// langOf returns the reply language selected by the language slot.
func langOf(tr *rasa.Tracker) i18n.Lang {
	return i18n.FromSlot(tr.Slot(slotLanguage))
}

// entityOrSlot returns the first value of entity in the latest message,
// falling back to the slot only when the message has no such entity.
func entityOrSlot(tr *rasa.Tracker, entity, slot string) any {
	if v, ok := tr.FirstEntityValue(entity); ok {
		return v
	}
	return tr.Slot(slot)
}

// textValue returns a normalized string value, "" for anything else.
func textValue(v any) string {
	s, _ := v.(string)
	return i18n.Normalize(s)
}

// parseQuantity accepts a positive whole number given as a JSON number or a
// numeric string, including Devanagari digits. Anything else wraps
// ErrInvalidInput.
func parseQuantity(v any) (int, error) {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case int:
		f = float64(q)
	case int64:
		f = float64(q)
	case string:
		s := strings.Map(asciiDigit, i18n.Normalize(q))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalidQuantity(v)
		}
		f = parsed
	default:
		return 0, invalidQuantity(v)
	}

	if math.IsNaN(f) || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0, invalidQuantity(v)
	}
	return int(f), nil
}

func invalidQuantity(v any) error {
	return fmt.Errorf("quantity %v: %w", v, errors.ErrInvalidInput)
}

func asciiDigit(r rune) rune {
	if r >= '०' && r <= '९' {
		return '0' + (r - '०')
	}
	return r
}

// reportFailure logs a backend failure and forwards it to Sentry.
// Not-found results are expected and only logged at debug level.
func (h *Handlers) reportFailure(ctx context.Context, err error, msg string) {
	if errors.IsNotFound(err) {
		h.logger.WithError(err).DebugContext(ctx, msg)
		return
	}
	h.logger.WithError(err).WarnContext(ctx, msg)
	sentry.CaptureException(ctx, err)
}
