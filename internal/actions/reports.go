package actions

import (
	"context"

	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/inventory"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
)

// lowStock reports how many items are below their reorder level.
func (h *Handlers) lowStock(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	lang := langOf(tr)

	token, ok := h.requireToken(ctx, tr)
	if !ok {
		d.Utter(msgAuthRestart.Pick(lang))
		return nil, metrics.OutcomeUnauthorized
	}

	report, err := h.backend.LowStockReport(ctx, token)
	switch {
	case err == nil:
		d.Utter(msgLowStockCount(report.TotalLowStockItems).Pick(lang))
		return nil, metrics.OutcomeSuccess
	case errors.IsBackendStatus(err):
		h.reportFailure(ctx, err, "Low stock report rejected")
		d.Utter(msgLowStockUnavailable.Pick(lang))
	default:
		h.reportFailure(ctx, err, "Low stock report failed")
		d.Utter(msgReportFailed.Pick(lang))
	}
	return nil, metrics.OutcomeError
}

// salesReport summarizes sales for today, the last 7 days and the last 30
// days. All three windows must load or the whole report is refused.
func (h *Handlers) salesReport(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	lang := langOf(tr)

	token, ok := h.requireToken(ctx, tr)
	if !ok {
		d.Utter(msgAuthRestart.Pick(lang))
		return nil, metrics.OutcomeUnauthorized
	}

	reports, err := h.backend.SalesReports(ctx, token, inventory.SummaryRanges...)
	if err != nil {
		h.reportFailure(ctx, err, "Sales report failed")
		d.Utter(msgSalesReportFailed.Pick(lang))
		return nil, metrics.OutcomeError
	}

	d.Utter(msgSalesSummary(reports).Pick(lang))
	return nil, metrics.OutcomeSuccess
}
