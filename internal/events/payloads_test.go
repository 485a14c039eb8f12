package events

import (
	"encoding/json"
	"testing"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

func TestTypedEvent_ViewChanged(t *testing.T) {
	view := prompt.View{
		State:       prompt.StateGenerating,
		Label:       "Stop Generating",
		Output:      "Hello ",
		Validity:    prompt.ValidityNone,
		SendEnabled: false,
		Revealed:    1,
		Total:       2,
	}
	evt := NewTypedEventWithSession(SourceSession, ViewChangedPayload{View: view}, "sess_1")

	if evt.Type != EventViewChanged {
		t.Fatalf("expected type %q, got %q", EventViewChanged, evt.Type)
	}
	if evt.SessionID != "sess_1" {
		t.Fatalf("expected session id sess_1, got %q", evt.SessionID)
	}
	got, ok := GetViewChangedPayload(evt)
	if !ok {
		t.Fatal("ExtractPayload returned false")
	}
	if got.View != view {
		t.Fatalf("view mismatch: got %+v, want %+v", got.View, view)
	}
}

func TestTypedEvent_Toast(t *testing.T) {
	evt := NewTypedEvent(SourceSession, ToastPayload{Message: "Text sent"})
	got, ok := GetToastPayload(evt)
	if !ok || got.Message != "Text sent" {
		t.Fatalf("unexpected payload %+v %v", got, ok)
	}
}

func TestExtractPayload_WrongType(t *testing.T) {
	evt := NewTypedEvent(SourceSession, ToastPayload{Message: "Text sent"})
	if _, ok := ExtractPayload[ViewChangedPayload](evt); ok {
		t.Error("expected false for mismatched event type")
	}
}

func TestDecodePayload(t *testing.T) {
	raw := json.RawMessage(`{"view":{"state":"revise","output":"Hallo Welt ","language":"de"}}`)
	got, ok := DecodePayload[ViewChangedPayload](raw)
	if !ok {
		t.Fatal("DecodePayload returned false")
	}
	if got.View.State != prompt.StateRevise || got.View.Language != "de" {
		t.Errorf("unexpected view %+v", got.View)
	}
}
