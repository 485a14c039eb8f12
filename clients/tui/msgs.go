package tui

import (
	"time"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// ViewMsg carries the latest view of the session.
type ViewMsg struct {
	View prompt.View
}

// ToastMsg carries a transient notification.
type ToastMsg struct {
	Message string
}

// SessionClosedMsg signals that the session ended on the other side.
type SessionClosedMsg struct {
	Reason string
}

// ConnectedMsg signals that the driver opened its session.
type ConnectedMsg struct {
	SessionID string
	View      prompt.View
}

// DisconnectedMsg signals a lost driver connection.
type DisconnectedMsg struct {
	Err error
}

// actionErrorMsg carries the error of a rejected action.
type actionErrorMsg struct {
	action string
	err    error
}

// toastExpiredMsg clears the toast it was scheduled for.
type toastExpiredMsg struct {
	seq int
}

const toastTTL = 3 * time.Second
