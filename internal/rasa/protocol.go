// Package rasa implements the wire contract between the dialogue engine and
// a remote action server: the action call payload, the tracker view it
// carries, and the events and utterances an action sends back.
package rasa

import "fmt"

// ActionCall is the body the dialogue engine POSTs to the action server.
type ActionCall struct {
	NextAction string         `json:"next_action" binding:"required"`
	SenderID   string         `json:"sender_id"`
	Tracker    Tracker        `json:"tracker"`
	Domain     map[string]any `json:"domain"`
	Version    string         `json:"version"`
}

// Tracker is the conversation state snapshot sent with each call.
// Only the parts the actions read are decoded.
type Tracker struct {
	SenderID         string         `json:"sender_id"`
	Slots            map[string]any `json:"slots"`
	LatestMessage    Message        `json:"latest_message"`
	LatestActionName string         `json:"latest_action_name"`
}

// Message is the user's latest parsed message.
type Message struct {
	Text     string         `json:"text"`
	Intent   Intent         `json:"intent"`
	Entities []Entity       `json:"entities"`
	Metadata map[string]any `json:"metadata"`
}

// Intent is the NLU classification of a message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is a value extracted from the message. Value is whatever the
// extractor produced: usually a string, a JSON number for numeric extractors.
type Entity struct {
	Entity    string `json:"entity"`
	Value     any    `json:"value"`
	Role      string `json:"role,omitempty"`
	Group     string `json:"group,omitempty"`
	Start     int    `json:"start,omitempty"`
	End       int    `json:"end,omitempty"`
	Extractor string `json:"extractor,omitempty"`
}

// EventSlot is the event type that sets a slot.
const EventSlot = "slot"

// Event is an instruction returned to the dialogue engine.
// Value is always serialized so that a nil value clears the slot.
type Event struct {
	Event     string   `json:"event"`
	Timestamp *float64 `json:"timestamp"`
	Name      string   `json:"name,omitempty"`
	Value     any      `json:"value"`
}

// SlotSet returns an event setting slot name to value; nil resets it.
func SlotSet(name string, value any) Event {
	return Event{Event: EventSlot, Name: name, Value: value}
}

// Button is a quick-reply button attached to an utterance.
type Button struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Response is one bot utterance.
type Response struct {
	Text     string         `json:"text"`
	Buttons  []Button       `json:"buttons"`
	Elements []any          `json:"elements"`
	Custom   map[string]any `json:"custom"`
	Image    *string        `json:"image"`
	Response *string        `json:"response"`
}

// ActionResponse is the success body of an action call.
type ActionResponse struct {
	Events    []Event    `json:"events"`
	Responses []Response `json:"responses"`
}

// NewActionResponse builds a response whose lists serialize as [] rather than null.
func NewActionResponse(events []Event, responses []Response) ActionResponse {
	if events == nil {
		events = []Event{}
	}
	if responses == nil {
		responses = []Response{}
	}
	return ActionResponse{Events: events, Responses: responses}
}

// ErrorResponse is returned with 404 when the named action is not registered.
type ErrorResponse struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

// UnknownAction builds the error body for an unregistered action name.
func UnknownAction(name string) ErrorResponse {
	return ErrorResponse{
		Error:      fmt.Sprintf("No registered action found for name '%s'.", name),
		ActionName: name,
	}
}

// ActionInfo describes a registered action on GET /actions.
type ActionInfo struct {
	Name string `json:"name"`
}
