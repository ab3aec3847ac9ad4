package actions

import (
	"context"

	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/i18n"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
)

// adjustment describes one direction of a stock change.
type adjustment struct {
	sign        int
	description string
	askProduct  i18n.Text
	askQuantity i18n.Text
	failed      i18n.Text
	checkOnHand bool
}

var (
	addition = adjustment{
		sign:        1,
		description: "Added via chatbot",
		askProduct:  msgAskAddProduct,
		askQuantity: msgAskAddQuantity,
		failed:      msgAddFailed,
	}
	removal = adjustment{
		sign:        -1,
		description: "Removed via chatbot",
		askProduct:  msgAskRemoveProduct,
		askQuantity: msgAskRemoveQuantity,
		failed:      msgRemoveFailed,
		checkOnHand: true,
	}
)

func (h *Handlers) addStock(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	return h.adjust(ctx, d, tr, addition)
}

func (h *Handlers) removeStock(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	return h.adjust(ctx, d, tr, removal)
}

// adjust resolves the product and quantity from the message or the slots,
// then applies the signed change. When only the quantity is missing, the
// resolved product name is kept in its slot for the follow-up turn.
func (h *Handlers) adjust(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker, adj adjustment) ([]rasa.Event, string) {
	lang := langOf(tr)

	token, ok := h.requireToken(ctx, tr)
	if !ok {
		d.Utter(msgAuth.Pick(lang))
		return nil, metrics.OutcomeUnauthorized
	}

	query := textValue(entityOrSlot(tr, entityProductName, slotProductName))
	rawQuantity := entityOrSlot(tr, entityNumber, slotQuantity)
	quantity, quantityErr := parseQuantity(rawQuantity)

	if query == "" {
		d.Utter(adj.askProduct.Pick(lang))
		return nil, metrics.OutcomeMissingInput
	}

	item, err := h.backend.FindItem(ctx, token, query)
	if err != nil {
		h.reportFailure(ctx, err, "Item lookup failed")
		d.Utter(msgProductNotFound(query).Pick(lang))
		return nil, lookupOutcome(err)
	}

	if quantityErr != nil {
		if rawQuantity != nil {
			h.logger.WithError(quantityErr).DebugContext(ctx, "Ignoring unusable quantity")
		}
		d.Utter(adj.askQuantity.Pick(lang))
		return []rasa.Event{rasa.SlotSet(slotProductName, item.Name)}, metrics.OutcomeMissingInput
	}

	reset := []rasa.Event{
		rasa.SlotSet(slotProductName, nil),
		rasa.SlotSet(slotQuantity, nil),
	}

	if adj.checkOnHand && item.Quantity < quantity {
		d.Utter(msgNotEnoughStock(item.Quantity).Pick(lang))
		return reset, metrics.OutcomeRejected
	}

	updated, err := h.backend.AdjustStock(ctx, token, item.ID, adj.sign*quantity, adj.description)
	switch {
	case err == nil:
		h.logger.WithField("item_id", item.ID).
			WithField("delta", adj.sign*quantity).
			WithField("quantity", updated.Quantity).
			InfoContext(ctx, "Stock adjusted")
		d.Utter(msgStockUpdated(item.Name, updated.Quantity).Pick(lang))
		return reset, metrics.OutcomeSuccess
	case errors.IsBackendStatus(err):
		h.reportFailure(ctx, err, "Stock adjustment rejected")
		d.Utter(adj.failed.Pick(lang))
	default:
		h.reportFailure(ctx, err, "Stock adjustment failed")
		d.Utter(msgUpdateError.Pick(lang))
	}
	return reset, metrics.OutcomeError
}
