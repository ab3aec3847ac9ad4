package actions

import (
	"context"

	"github.com/stockpilot/stockbot-go/internal/i18n"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/rasa"
)

// setLanguage switches the reply language. The confirmation is written in
// the newly selected language and echoes what the user typed.
func (h *Handlers) setLanguage(_ context.Context, d *rasa.Dispatcher, tr *rasa.Tracker) ([]rasa.Event, string) {
	value, _ := tr.FirstEntityValue(entityLanguage)
	spoken := textValue(value)

	lang, ok := i18n.ParseLanguage(spoken)
	if !ok {
		d.Utter(msgInvalidLanguage.Pick(langOf(tr)))
		return nil, metrics.OutcomeMissingInput
	}

	d.Utter(msgLanguageSet(lang, spoken))
	return []rasa.Event{rasa.SlotSet(slotLanguage, string(lang))}, metrics.OutcomeSuccess
}
