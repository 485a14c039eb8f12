package ws

import "encoding/json"

// FrameType represents the type of WebSocket frame.
type FrameType string

const (
	FrameTypeRequest  FrameType = "req"
	FrameTypeResponse FrameType = "res"
	FrameTypeEvent    FrameType = "event"
)

// Method represents a WebSocket request method.
type Method string

const (
	MethodOpenSession  Method = "open_session"
	MethodCloseSession Method = "close_session"
	MethodGetView      Method = "get_view"
	MethodClick        Method = "click"
	MethodChoose       Method = "choose"
	MethodSend         Method = "send"
	MethodAcknowledge  Method = "acknowledge"
	MethodCloseMenu    Method = "close_menu"
)

// Frame is the WebSocket protocol envelope.
type Frame struct {
	Type      FrameType       `json:"type"`
	ID        string          `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	OK        *bool           `json:"ok,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
	Event     string          `json:"event,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// ChooseParams are the params of a choose request.
type ChooseParams struct {
	Item string `json:"item"`
}

// AcknowledgeParams are the params of an acknowledge request.
type AcknowledgeParams struct {
	OK bool `json:"ok"`
}

// SessionOpened is the payload of a successful open_session response.
type SessionOpened struct {
	SessionID string          `json:"session_id"`
	View      json.RawMessage `json:"view"`
}

// MarshalFrame serializes a Frame to JSON bytes.
func MarshalFrame(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

// UnmarshalFrame deserializes JSON bytes into a Frame.
func UnmarshalFrame(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}

// NewRequestFrame creates a request Frame. params may be nil.
func NewRequestFrame(id string, method Method, sessionID string, params any) (Frame, error) {
	f := Frame{
		Type:      FrameTypeRequest,
		ID:        id,
		Method:    string(method),
		SessionID: sessionID,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return Frame{}, err
		}
		f.Params = data
	}
	return f, nil
}

// NewEventFrame creates a Frame for broadcasting an event.
func NewEventFrame(event string, sessionID string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Type:      FrameTypeEvent,
		Event:     event,
		SessionID: sessionID,
		Payload:   data,
	}, nil
}

// NewResponseFrame creates a response Frame.
func NewResponseFrame(id string, ok bool, payload any, errMsg string) (Frame, error) {
	f := Frame{
		Type:  FrameTypeResponse,
		ID:    id,
		OK:    &ok,
		Error: errMsg,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, err
		}
		f.Payload = data
	}
	return f, nil
}
