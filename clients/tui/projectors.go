package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/quickprompt/internal/events"
	ws "github.com/dohr-michael/quickprompt/internal/gateway/ws"
)

// Project converts a gateway event frame into a typed tea.Msg.
// Returns nil for frames that don't map to a TUI message.
func Project(frame ws.Frame) tea.Msg {
	if frame.Type != ws.FrameTypeEvent || frame.Event == "" {
		return nil
	}

	switch events.EventType(frame.Event) {
	case events.EventViewChanged:
		payload, ok := events.DecodePayload[events.ViewChangedPayload](frame.Payload)
		if !ok {
			return nil
		}
		return ViewMsg{View: payload.View}
	case events.EventToastShown:
		payload, ok := events.DecodePayload[events.ToastPayload](frame.Payload)
		if !ok {
			return nil
		}
		return ToastMsg{Message: payload.Message}
	case events.EventSessionClosed:
		payload, _ := events.DecodePayload[events.SessionClosedPayload](frame.Payload)
		return SessionClosedMsg{Reason: payload.Reason}
	default:
		return nil
	}
}

// ProjectEvent converts an in-process bus event into a typed tea.Msg.
func ProjectEvent(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.EventViewChanged:
		payload, ok := events.GetViewChangedPayload(evt)
		if !ok {
			return nil
		}
		return ViewMsg{View: payload.View}
	case events.EventToastShown:
		payload, ok := events.GetToastPayload(evt)
		if !ok {
			return nil
		}
		return ToastMsg{Message: payload.Message}
	case events.EventSessionClosed:
		payload, _ := events.ExtractPayload[events.SessionClosedPayload](evt)
		return SessionClosedMsg{Reason: payload.Reason}
	default:
		return nil
	}
}
