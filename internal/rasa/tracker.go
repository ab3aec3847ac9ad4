package rasa

// Slot returns the current value of a slot, or nil.
func (t *Tracker) Slot(name string) any {
	if t.Slots == nil {
		return nil
	}
	return t.Slots[name]
}

// SlotString returns the slot value when it is a string, "" otherwise.
func (t *Tracker) SlotString(name string) string {
	if s, ok := t.Slot(name).(string); ok {
		return s
	}
	return ""
}

// LatestEntityValues returns the values of every entity of the given type in
// the latest message, in extraction order.
func (t *Tracker) LatestEntityValues(entity string) []any {
	var values []any
	for _, e := range t.LatestMessage.Entities {
		if e.Entity == entity {
			values = append(values, e.Value)
		}
	}
	return values
}

// FirstEntityValue returns the first value of the given entity type.
func (t *Tracker) FirstEntityValue(entity string) (any, bool) {
	for _, e := range t.LatestMessage.Entities {
		if e.Entity == entity {
			return e.Value, true
		}
	}
	return nil, false
}

// Metadata returns a key from the latest message's metadata, or nil.
func (t *Tracker) Metadata(key string) any {
	if t.LatestMessage.Metadata == nil {
		return nil
	}
	return t.LatestMessage.Metadata[key]
}

// Dispatcher collects the utterances an action sends during one run.
type Dispatcher struct {
	responses []Response
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Utter queues a plain text utterance.
func (d *Dispatcher) Utter(text string) {
	d.UtterResponse(Response{Text: text})
}

// UtterResponse queues a full response, filling empty collections.
func (d *Dispatcher) UtterResponse(r Response) {
	if r.Buttons == nil {
		r.Buttons = []Button{}
	}
	if r.Elements == nil {
		r.Elements = []any{}
	}
	if r.Custom == nil {
		r.Custom = map[string]any{}
	}
	d.responses = append(d.responses, r)
}

// Responses returns the utterances queued so far.
func (d *Dispatcher) Responses() []Response {
	return d.responses
}
