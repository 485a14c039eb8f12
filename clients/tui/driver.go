package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	wsclient "github.com/dohr-michael/quickprompt/clients/ws"
	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/prompt"
	"github.com/dohr-michael/quickprompt/internal/sessions"
)

var ErrNotOpen = errors.New("driver: session not open")

// Driver runs one prompt session for the TUI. Actions return the view right
// after the action; later changes arrive on Messages.
type Driver interface {
	Name() string
	Open(ctx context.Context) (string, prompt.View, error)
	Messages() <-chan tea.Msg

	Click(ctx context.Context) (prompt.View, error)
	Choose(ctx context.Context, item prompt.MenuItem) (prompt.View, error)
	Send(ctx context.Context) (prompt.View, error)
	Acknowledge(ctx context.Context, ok bool) (prompt.View, error)
	CloseMenu(ctx context.Context) (prompt.View, error)

	Close() error
}

// LocalDriver runs the session in-process.
type LocalDriver struct {
	manager *sessions.Manager
	bus     *events.Bus

	session     *sessions.Session
	unsubscribe func()
	msgs        chan tea.Msg
	done        chan struct{}
	closeOnce   sync.Once
}

// NewLocalDriver drives a session created by manager. The bus must be the
// one the manager publishes on.
func NewLocalDriver(manager *sessions.Manager, bus *events.Bus) *LocalDriver {
	return &LocalDriver{
		manager: manager,
		bus:     bus,
		msgs:    make(chan tea.Msg, 64),
		done:    make(chan struct{}),
	}
}

func (d *LocalDriver) Name() string { return "local" }

func (d *LocalDriver) Open(ctx context.Context) (string, prompt.View, error) {
	s, err := d.manager.Create(ctx, func(id string) {
		d.unsubscribe = d.bus.SubscribeSession(id, func(e events.Event) {
			if msg := ProjectEvent(e); msg != nil {
				d.deliver(msg)
			}
		}, events.EventViewChanged, events.EventToastShown, events.EventSessionClosed)
	})
	if err != nil {
		if d.unsubscribe != nil {
			d.unsubscribe()
		}
		return "", prompt.View{}, err
	}
	d.session = s
	return s.ID, s.View(), nil
}

// deliver blocks the bus until the TUI takes the message, so no view is lost.
func (d *LocalDriver) deliver(msg tea.Msg) {
	select {
	case d.msgs <- msg:
	case <-d.done:
	}
}

func (d *LocalDriver) Messages() <-chan tea.Msg { return d.msgs }

func (d *LocalDriver) do(ctx context.Context, fn func(c *prompt.Controller) error) (prompt.View, error) {
	if d.session == nil {
		return prompt.View{}, ErrNotOpen
	}
	if err := d.session.Do(ctx, fn); err != nil {
		return d.session.View(), err
	}
	return d.session.View(), nil
}

func (d *LocalDriver) Click(ctx context.Context) (prompt.View, error) {
	return d.do(ctx, func(c *prompt.Controller) error { return c.Click() })
}

func (d *LocalDriver) Choose(ctx context.Context, item prompt.MenuItem) (prompt.View, error) {
	return d.do(ctx, func(c *prompt.Controller) error { return c.Choose(item) })
}

func (d *LocalDriver) Send(ctx context.Context) (prompt.View, error) {
	return d.do(ctx, func(c *prompt.Controller) error { return c.Send() })
}

func (d *LocalDriver) Acknowledge(ctx context.Context, ok bool) (prompt.View, error) {
	return d.do(ctx, func(c *prompt.Controller) error {
		c.Acknowledge(ok)
		return nil
	})
}

func (d *LocalDriver) CloseMenu(ctx context.Context) (prompt.View, error) {
	return d.do(ctx, func(c *prompt.Controller) error {
		c.CloseMenu()
		return nil
	})
}

// Close ends the session. It is safe to call more than once.
func (d *LocalDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.done)
		if d.unsubscribe != nil {
			d.unsubscribe()
		}
		if d.session != nil {
			err = d.manager.Close(d.session.ID, "tui exited")
		}
	})
	return err
}

// RemoteDriver runs the session on a gateway.
type RemoteDriver struct {
	url string

	client    *wsclient.Client
	msgs      chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewRemoteDriver drives a session on the gateway WebSocket endpoint at url.
func NewRemoteDriver(url string) *RemoteDriver {
	return &RemoteDriver{
		url:  url,
		msgs: make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

func (d *RemoteDriver) Name() string { return d.url }

func (d *RemoteDriver) Open(ctx context.Context) (string, prompt.View, error) {
	client, err := wsclient.Dial(ctx, d.url)
	if err != nil {
		return "", prompt.View{}, fmt.Errorf("connect to gateway: %w", err)
	}
	view, err := client.OpenSession(ctx)
	if err != nil {
		client.Close()
		return "", prompt.View{}, fmt.Errorf("open session: %w", err)
	}
	d.client = client
	go d.pump(client, client.SessionID())
	return client.SessionID(), view, nil
}

// pump forwards the session's event frames until the connection ends.
func (d *RemoteDriver) pump(client *wsclient.Client, id string) {
	for frame := range client.Events() {
		if frame.SessionID != "" && frame.SessionID != id {
			continue
		}
		if msg := Project(frame); msg != nil {
			select {
			case d.msgs <- msg:
			case <-d.done:
				return
			}
		}
	}
	select {
	case d.msgs <- DisconnectedMsg{Err: client.Err()}:
	case <-d.done:
	}
}

func (d *RemoteDriver) Messages() <-chan tea.Msg { return d.msgs }

func (d *RemoteDriver) Click(ctx context.Context) (prompt.View, error) {
	if d.client == nil {
		return prompt.View{}, ErrNotOpen
	}
	return d.client.Click(ctx)
}

func (d *RemoteDriver) Choose(ctx context.Context, item prompt.MenuItem) (prompt.View, error) {
	if d.client == nil {
		return prompt.View{}, ErrNotOpen
	}
	return d.client.Choose(ctx, string(item))
}

func (d *RemoteDriver) Send(ctx context.Context) (prompt.View, error) {
	if d.client == nil {
		return prompt.View{}, ErrNotOpen
	}
	return d.client.Send(ctx)
}

func (d *RemoteDriver) Acknowledge(ctx context.Context, ok bool) (prompt.View, error) {
	if d.client == nil {
		return prompt.View{}, ErrNotOpen
	}
	return d.client.Acknowledge(ctx, ok)
}

func (d *RemoteDriver) CloseMenu(ctx context.Context) (prompt.View, error) {
	if d.client == nil {
		return prompt.View{}, ErrNotOpen
	}
	return d.client.CloseMenu(ctx)
}

// Close ends the remote session and the connection.
func (d *RemoteDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.done)
		if d.client == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.client.CloseSession(ctx)
		err = d.client.Close()
	})
	return err
}
