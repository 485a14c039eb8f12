package ws

import (
	"encoding/json"
	"testing"
)

func TestNewRequestFrame(t *testing.T) {
	f, err := NewRequestFrame("req-1", MethodChoose, "sess_abc", ChooseParams{Item: "Expand"})
	if err != nil {
		t.Fatalf("NewRequestFrame: %v", err)
	}
	if f.Type != FrameTypeRequest || f.Method != string(MethodChoose) {
		t.Fatalf("unexpected frame %+v", f)
	}
	if f.SessionID != "sess_abc" {
		t.Fatalf("expected session_id %q, got %q", "sess_abc", f.SessionID)
	}

	var p ChooseParams
	if err := json.Unmarshal(f.Params, &p); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if p.Item != "Expand" {
		t.Fatalf("expected params.item %q, got %q", "Expand", p.Item)
	}

	bare, err := NewRequestFrame("req-2", MethodClick, "sess_abc", nil)
	if err != nil {
		t.Fatalf("NewRequestFrame: %v", err)
	}
	if bare.Params != nil {
		t.Fatalf("expected no params, got %s", bare.Params)
	}
}

func TestUnmarshalFrame_Invalid(t *testing.T) {
	if _, err := UnmarshalFrame([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNewEventFrame(t *testing.T) {
	f, err := NewEventFrame("toast.shown", "sess_42", map[string]string{"message": "Text sent"})
	if err != nil {
		t.Fatalf("NewEventFrame: %v", err)
	}
	if f.Type != FrameTypeEvent {
		t.Fatalf("expected type %q, got %q", FrameTypeEvent, f.Type)
	}
	if f.Event != "toast.shown" {
		t.Fatalf("expected event %q, got %q", "toast.shown", f.Event)
	}
	if f.SessionID != "sess_42" {
		t.Fatalf("expected session_id %q, got %q", "sess_42", f.SessionID)
	}

	var p map[string]string
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p["message"] != "Text sent" {
		t.Fatalf("expected payload.message %q, got %q", "Text sent", p["message"])
	}
}

func TestNewResponseFrame_OK(t *testing.T) {
	f, err := NewResponseFrame("req-5", true, map[string]string{"state": "revise"}, "")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.Type != FrameTypeResponse {
		t.Fatalf("expected type %q, got %q", FrameTypeResponse, f.Type)
	}
	if f.ID != "req-5" {
		t.Fatalf("expected id %q, got %q", "req-5", f.ID)
	}
	if f.OK == nil || !*f.OK {
		t.Fatal("expected ok=true")
	}
	if f.Error != "" {
		t.Fatalf("expected no error, got %q", f.Error)
	}

	var p map[string]string
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p["state"] != "revise" {
		t.Fatalf("expected payload.state %q, got %q", "revise", p["state"])
	}
}

func TestNewResponseFrame_Error(t *testing.T) {
	f, err := NewResponseFrame("req-6", false, nil, "revise menu is not open")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.OK == nil || *f.OK {
		t.Fatal("expected ok=false")
	}
	if f.Error != "revise menu is not open" {
		t.Fatalf("expected error %q, got %q", "revise menu is not open", f.Error)
	}
	if f.Payload != nil {
		t.Fatalf("expected nil payload, got %s", string(f.Payload))
	}
}
