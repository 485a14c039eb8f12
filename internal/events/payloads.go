package events

import (
	"encoding/json"
	"time"

	"github.com/dohr-michael/quickprompt/internal/prompt"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// SESSION EVENTS
// =============================================================================

type SessionCreatedPayload struct {
	Language texts.Language `json:"language"`
}

func (SessionCreatedPayload) EventType() EventType { return EventSessionCreated }

type SessionClosedPayload struct {
	Reason string `json:"reason,omitempty"`
}

func (SessionClosedPayload) EventType() EventType { return EventSessionClosed }

// =============================================================================
// VIEW EVENTS
// =============================================================================

// ViewChangedPayload carries the full view after a change set.
type ViewChangedPayload struct {
	View prompt.View `json:"view"`
}

func (ViewChangedPayload) EventType() EventType { return EventViewChanged }

type ToastPayload struct {
	Message string `json:"message"`
}

func (ToastPayload) EventType() EventType { return EventToastShown }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func NewTypedEventWithSession(source EventSource, payload EventPayload, sessionID string) Event {
	e := NewTypedEvent(source, payload)
	e.SessionID = sessionID
	return e
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

// ExtractPayload decodes an event payload into T. It reports false when the
// event type does not match T.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	if result.EventType() != e.Type {
		return result, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// DecodePayload decodes a raw event payload, as received over the wire.
func DecodePayload[T EventPayload](raw json.RawMessage) (T, bool) {
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, false
	}
	return result, true
}

func GetViewChangedPayload(e Event) (ViewChangedPayload, bool) {
	return ExtractPayload[ViewChangedPayload](e)
}

func GetToastPayload(e Event) (ToastPayload, bool) {
	return ExtractPayload[ToastPayload](e)
}
