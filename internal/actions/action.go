// Package actions implements the custom actions the dialogue engine invokes
// by name. Each action reads the tracker, calls the inventory backend at most
// a few times and answers with a localized utterance plus slot events.
// Failures never leave an action; they become localized replies.
package actions

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/stockpilot/stockbot-go/internal/inventory"
	"github.com/stockpilot/stockbot-go/internal/logger"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
)

// Action is a named handler the dialogue engine can call.
type Action interface {
	// Name is the identifier used in next_action.
	Name() string

	// Run executes the action. Utterances go to the dispatcher; the returned
	// events are applied to the conversation by the engine.
	Run(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) []rasa.Event
}

// Backend is the subset of the inventory client the actions depend on.
type Backend interface {
	FindItem(ctx context.Context, token, name string) (*inventory.Item, error)
	LowStockReport(ctx context.Context, token string) (*inventory.LowStockReport, error)
	SalesReports(ctx context.Context, token string, ranges ...inventory.Range) ([]inventory.SalesReport, error)
	AdjustStock(ctx context.Context, token string, itemID int64, delta int, description string) (*inventory.Item, error)
}

// Action names.
const (
	NameSetLanguage      = "action_set_language"
	NameCheckStock       = "action_check_stock"
	NameCheckItemDetails = "action_check_item_details"
	NameLowStock         = "action_low_stock"
	NameSalesReport      = "action_sales_report"
	NameAddStock         = "action_add_stock"
	NameRemoveStock      = "action_remove_stock"
)

// Slot and entity names shared with the dialogue engine's domain.
const (
	slotLanguage    = "language"
	slotProductName = "product_name"
	slotQuantity    = "quantity"

	entityLanguage    = "language"
	entityProductName = "product_name"
	entityNumber      = "number"

	metadataToken = "jwt_token"
)

// runFunc is an action body returning its events and the metrics outcome.
type runFunc func(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string)

// instrumented wraps a runFunc with outcome and duration metrics.
type instrumented struct {
	name    string
	run     runFunc
	metrics *metrics.Metrics
}

func (a *instrumented) Name() string {
	return a.name
}

func (a *instrumented) Run(ctx context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) []rasa.Event {
	start := time.Now()
	events, outcome := a.run(ctx, d, tr)
	if a.metrics != nil {
		a.metrics.RecordAction(a.name, outcome, time.Since(start).Seconds())
	}
	return events
}

// Registry maps action names to actions.
type Registry struct {
	actions map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds an action, replacing any action with the same name.
func (r *Registry) Register(a Action) {
	r.actions[a.Name()] = a
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns all registered action names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Handlers holds the dependencies shared by all inventory actions.
type Handlers struct {
	backend Backend
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandlers creates the action handler set.
func NewHandlers(backend Backend, m *metrics.Metrics, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	return &Handlers{
		backend: backend,
		metrics: m,
		logger:  log.WithModule("actions"),
	}
}

// Register adds every action to the registry.
func (h *Handlers) Register(r *Registry) {
	for name, run := range map[string]runFunc{
		NameSetLanguage:      h.setLanguage,
		NameCheckStock:       h.checkStock,
		NameCheckItemDetails: h.checkItemDetails,
		NameLowStock:         h.lowStock,
		NameSalesReport:      h.salesReport,
		NameAddStock:         h.addStock,
		NameRemoveStock:      h.removeStock,
	} {
		r.Register(&instrumented{name: name, run: run, metrics: h.metrics})
	}
}

// DefaultRegistry builds a registry holding all inventory actions.
func DefaultRegistry(backend Backend, m *metrics.Metrics, log *logger.Logger) *Registry {
	r := NewRegistry()
	NewHandlers(backend, m, log).Register(r)
	return r
}
