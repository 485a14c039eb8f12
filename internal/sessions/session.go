// Package sessions keeps the live prompt sessions of a process in memory.
package sessions

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/loop"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// Info is the public metadata of a session.
type Info struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Status    SessionStatus `json:"status"`
	Actions   int           `json:"actions"`
	View      prompt.View   `json:"view"`
}

// Session is one prompt controller running on its own event loop.
type Session struct {
	ID        string
	CreatedAt time.Time

	loop *loop.Loop
	ctrl *prompt.Controller
	view *prompt.ViewSurface
	log  *slog.Logger

	mu        sync.Mutex
	updatedAt time.Time
	actions   int
	status    SessionStatus
}

func generateSessionID() string {
	u := uuid.New().String()
	return "sess_" + strings.ReplaceAll(u[:8], "-", "")
}

// Do runs fn against the controller on the session loop and waits for it.
func (s *Session) Do(ctx context.Context, fn func(c *prompt.Controller) error) error {
	var err error
	if lerr := s.loop.Do(ctx, func() { err = fn(s.ctrl) }); lerr != nil {
		return lerr
	}

	s.mu.Lock()
	s.actions++
	s.updatedAt = time.Now()
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("session action failed", "error", err)
	}
	return err
}

// View returns the last view pushed by the controller.
func (s *Session) View() prompt.View {
	return s.view.View()
}

// Info returns a snapshot of the session metadata.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
		Status:    s.status,
		Actions:   s.actions,
		View:      s.view.View(),
	}
}

// close cancels the controller timers and stops the loop.
func (s *Session) close() {
	_ = s.loop.Do(context.Background(), func() { s.ctrl.Close() })
	s.loop.Close()

	s.mu.Lock()
	s.status = SessionClosed
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// surface publishes controller output on the bus, tagged with the session id.
func surface(bus *events.Bus, id string) *prompt.ViewSurface {
	return prompt.NewViewSurface(
		func(v prompt.View) {
			bus.Publish(events.NewTypedEventWithSession(events.SourceSession, events.ViewChangedPayload{View: v}, id))
		},
		func(msg string) {
			bus.Publish(events.NewTypedEventWithSession(events.SourceSession, events.ToastPayload{Message: msg}, id))
		},
	)
}
