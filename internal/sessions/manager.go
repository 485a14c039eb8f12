package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/loop"
	"github.com/dohr-michael/quickprompt/internal/prompt"
	"github.com/dohr-michael/quickprompt/internal/reveal"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

var ErrNotFound = errors.New("session not found")

// Options configures every session created by a Manager.
type Options struct {
	Texts    prompt.TextSource
	Reveal   reveal.Options
	Timers   prompt.Timers
	Language texts.Language
	// Seed makes topic picks reproducible; zero means random.
	Seed   uint64
	Bus    *events.Bus
	Logger *slog.Logger
}

// Manager creates sessions and tracks the live ones.
type Manager struct {
	opts Options
	log  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		opts:     opts,
		log:      opts.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session and publishes session.created. attach, when not
// nil, receives the new id before the session publishes anything.
func (m *Manager) Create(ctx context.Context, attach func(id string)) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:        generateSessionID(),
		CreatedAt: now,
		updatedAt: now,
		status:    SessionActive,
		loop:      loop.New(64),
	}
	s.log = m.log.With("session_id", s.ID)
	s.view = surface(m.opts.Bus, s.ID)
	if attach != nil {
		attach(s.ID)
	}

	err := s.loop.Do(ctx, func() {
		s.ctrl = prompt.New(prompt.Options{
			Texts:     m.opts.Texts,
			Scheduler: s.loop,
			Surface:   s.view,
			Reveal:    m.opts.Reveal,
			Timers:    m.opts.Timers,
			Language:  m.opts.Language,
			Pick:      prompt.RandomPicker(m.opts.Seed),
			Logger:    s.log,
		})
	})
	if err != nil {
		s.loop.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.opts.Bus.Publish(events.NewTypedEventWithSession(
		events.SourceSession,
		events.SessionCreatedPayload{Language: s.View().Language},
		s.ID,
	))
	s.log.Info("session created")
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List returns the live sessions, most recently used first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos
}

// Close stops a session and publishes session.closed.
func (m *Manager) Close(id, reason string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.close()
	m.opts.Bus.Publish(events.NewTypedEventWithSession(
		events.SourceSession,
		events.SessionClosedPayload{Reason: reason},
		id,
	))
	s.log.Info("session closed", "reason", reason)
	return nil
}

// CloseAll stops every live session.
func (m *Manager) CloseAll(reason string) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.Close(id, reason)
	}
}
