package rasa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCall = `{
  "next_action": "action_add_stock",
  "sender_id": "7f3a",
  "version": "3.6.0",
  "domain": {"slots": {}},
  "tracker": {
    "sender_id": "7f3a",
    "slots": {"language": "hi", "quantity": 12, "product_name": null},
    "latest_action_name": "action_listen",
    "latest_message": {
      "text": "add 12 basmati rice",
      "intent": {"name": "add_stock", "confidence": 0.97},
      "entities": [
        {"entity": "number", "value": 12, "start": 4, "end": 6, "extractor": "DucklingEntityExtractor"},
        {"entity": "product_name", "value": "basmati rice", "start": 7, "end": 19},
        {"entity": "product_name", "value": "rice"}
      ],
      "metadata": {"jwt_token": "abc.def.ghi"}
    }
  }
}`

func TestActionCall_Decode(t *testing.T) {
	var call ActionCall
	require.NoError(t, json.Unmarshal([]byte(sampleCall), &call))

	assert.Equal(t, "action_add_stock", call.NextAction)
	assert.Equal(t, "7f3a", call.SenderID)
	assert.Equal(t, "add_stock", call.Tracker.LatestMessage.Intent.Name)

	tr := call.Tracker
	assert.Equal(t, "hi", tr.SlotString("language"))
	assert.Empty(t, tr.SlotString("quantity"), "numeric slot is not a string")
	assert.InDelta(t, 12.0, tr.Slot("quantity"), 1e-9)
	assert.Nil(t, tr.Slot("product_name"))
	assert.Nil(t, tr.Slot("missing"))

	assert.Equal(t, []any{"basmati rice", "rice"}, tr.LatestEntityValues("product_name"))
	v, ok := tr.FirstEntityValue("number")
	require.True(t, ok)
	assert.InDelta(t, 12.0, v, 1e-9)

	_, ok = tr.FirstEntityValue("language")
	assert.False(t, ok)

	assert.Equal(t, "abc.def.ghi", tr.Metadata("jwt_token"))
}

func TestTracker_NilMaps(t *testing.T) {
	var tr Tracker
	assert.Nil(t, tr.Slot("language"))
	assert.Nil(t, tr.Metadata("jwt_token"))
	assert.Empty(t, tr.LatestEntityValues("product_name"))
}

func TestSlotSet_NilValueSerialized(t *testing.T) {
	data, err := json.Marshal(SlotSet("product_name", nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"slot","timestamp":null,"name":"product_name","value":null}`, string(data))
}

func TestActionResponse_EmptyListsSerialize(t *testing.T) {
	data, err := json.Marshal(NewActionResponse(nil, nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"events":[],"responses":[]}`, string(data))
}

func TestDispatcher_Utter(t *testing.T) {
	d := NewDispatcher()
	d.Utter("Which product would you like to check?")

	require.Len(t, d.Responses(), 1)
	data, err := json.Marshal(d.Responses()[0])
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"text": "Which product would you like to check?",
		"buttons": [], "elements": [], "custom": {},
		"image": null, "response": null
	}`, string(data))
}

func TestUnknownAction(t *testing.T) {
	resp := UnknownAction("action_fly")

	assert.Equal(t, "No registered action found for name 'action_fly'.", resp.Error)
	assert.Equal(t, "action_fly", resp.ActionName)
}
