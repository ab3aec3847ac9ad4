package actions

import (
	"context"

	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
)

// checkStock reports the quantity on hand of the product named in the message.
func (h *Handlers) checkStock(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	lang := langOf(tr)

	token, ok := h.requireToken(ctx, tr)
	if !ok {
		d.Utter(msgAuthRestart.Pick(lang))
		return nil, metrics.OutcomeUnauthorized
	}

	value, _ := tr.FirstEntityValue(entityProductName)
	query := textValue(value)
	if query == "" {
		d.Utter(msgAskCheckProduct.Pick(lang))
		return nil, metrics.OutcomeMissingInput
	}

	outcome := metrics.OutcomeSuccess
	item, err := h.backend.FindItem(ctx, token, query)
	if err != nil {
		h.reportFailure(ctx, err, "Item lookup failed")
		d.Utter(msgItemNamedNotFound(query).Pick(lang))
		outcome = lookupOutcome(err)
	} else {
		d.Utter(msgStockLevel(item.Name, item.Quantity).Pick(lang))
	}

	return []rasa.Event{rasa.SlotSet(slotProductName, nil)}, outcome
}

// checkItemDetails replies with SKU, category, supplier and selling price.
func (h *Handlers) checkItemDetails(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	lang := langOf(tr)

	token, ok := h.requireToken(ctx, tr)
	if !ok {
		d.Utter(msgAuth.Pick(lang))
		return nil, metrics.OutcomeUnauthorized
	}

	value, _ := tr.FirstEntityValue(entityProductName)
	query := textValue(value)
	if query == "" {
		d.Utter(msgAskDetailsProduct.Pick(lang))
		return nil, metrics.OutcomeMissingInput
	}

	outcome := metrics.OutcomeSuccess
	item, err := h.backend.FindItem(ctx, token, query)
	if err != nil {
		h.reportFailure(ctx, err, "Item lookup failed")
		d.Utter(msgItemNotFound(query).Pick(lang))
		outcome = lookupOutcome(err)
	} else {
		d.Utter(msgItemDetails(item).Pick(lang))
	}

	return []rasa.Event{rasa.SlotSet(slotProductName, nil)}, outcome
}

// lookupOutcome distinguishes an empty search from a failed one. Both are
// shown to the user as "not found".
func lookupOutcome(err error) string {
	if errors.IsNotFound(err) {
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}
