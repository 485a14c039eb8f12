// Package ws provides a WebSocket client for the quickprompt gateway.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	wsprotocol "github.com/dohr-michael/quickprompt/internal/gateway/ws"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

var (
	ErrRequestFailed = errors.New("gateway request failed")
	ErrNoSession     = errors.New("no session opened")
	ErrClosed        = errors.New("connection closed")
)

// Client is a WebSocket client for the quickprompt gateway. It drives one
// session at a time.
type Client struct {
	conn   *websocket.Conn
	reqSeq uint64
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pending   map[string]chan wsprotocol.Frame
	sessionID string
	readErr   error

	events chan wsprotocol.Frame
	done   chan struct{}
}

// EndpointURL turns a gateway base address (http://host:port, ws://host:port
// or host:port) into the WebSocket endpoint URL.
func EndpointURL(base string) (string, error) {
	if !strings.Contains(base, "://") {
		base = "ws://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("gateway url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("gateway url: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/ws"
	}
	return u.String(), nil
}

// Dial connects to the gateway WebSocket endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	clientCtx, cancel := context.WithCancel(context.Background())

	c := &Client{
		conn:    conn,
		ctx:     clientCtx,
		cancel:  cancel,
		pending: make(map[string]chan wsprotocol.Frame),
		events:  make(chan wsprotocol.Frame, 256),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers event frames. It is closed when the connection ends.
// Events are dropped while the channel is full.
func (c *Client) Events() <-chan wsprotocol.Frame {
	return c.events
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// SessionID returns the session opened by OpenSession.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) readLoop() {
	defer func() {
		close(c.events)
		close(c.done)
	}()

	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}
		frame, err := wsprotocol.UnmarshalFrame(data)
		if err != nil {
			continue
		}

		switch frame.Type {
		case wsprotocol.FrameTypeResponse:
			c.mu.Lock()
			ch, ok := c.pending[frame.ID]
			delete(c.pending, frame.ID)
			c.mu.Unlock()
			if ok {
				ch <- frame
			}
		case wsprotocol.FrameTypeEvent:
			select {
			case c.events <- frame:
			default:
			}
		}
	}
}

// Call sends a request for the current session and waits for its response.
func (c *Client) Call(ctx context.Context, method wsprotocol.Method, params any) (wsprotocol.Frame, error) {
	seq := atomic.AddUint64(&c.reqSeq, 1)
	id := fmt.Sprintf("req-%d", seq)

	frame, err := wsprotocol.NewRequestFrame(id, method, c.SessionID(), params)
	if err != nil {
		return wsprotocol.Frame{}, err
	}
	data, err := wsprotocol.MarshalFrame(frame)
	if err != nil {
		return wsprotocol.Frame{}, err
	}

	ch := make(chan wsprotocol.Frame, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return wsprotocol.Frame{}, fmt.Errorf("%s: %w", method, err)
	}

	select {
	case res := <-ch:
		if res.OK == nil || !*res.OK {
			return res, fmt.Errorf("%w: %s", ErrRequestFailed, res.Error)
		}
		return res, nil
	case <-c.done:
		return wsprotocol.Frame{}, ErrClosed
	case <-ctx.Done():
		return wsprotocol.Frame{}, ctx.Err()
	}
}

// OpenSession starts a session on the gateway and returns its initial view.
func (c *Client) OpenSession(ctx context.Context) (prompt.View, error) {
	res, err := c.Call(ctx, wsprotocol.MethodOpenSession, nil)
	if err != nil {
		return prompt.View{}, err
	}
	var opened wsprotocol.SessionOpened
	if err := json.Unmarshal(res.Payload, &opened); err != nil {
		return prompt.View{}, fmt.Errorf("decode session: %w", err)
	}
	var view prompt.View
	if err := json.Unmarshal(opened.View, &view); err != nil {
		return prompt.View{}, fmt.Errorf("decode view: %w", err)
	}

	c.mu.Lock()
	c.sessionID = opened.SessionID
	c.mu.Unlock()
	return view, nil
}

// act calls a session method and decodes the resulting view.
func (c *Client) act(ctx context.Context, method wsprotocol.Method, params any) (prompt.View, error) {
	if c.SessionID() == "" {
		return prompt.View{}, ErrNoSession
	}
	res, err := c.Call(ctx, method, params)
	if err != nil {
		return prompt.View{}, err
	}
	var view prompt.View
	if err := json.Unmarshal(res.Payload, &view); err != nil {
		return prompt.View{}, fmt.Errorf("decode view: %w", err)
	}
	return view, nil
}

func (c *Client) View(ctx context.Context) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodGetView, nil)
}

func (c *Client) Click(ctx context.Context) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodClick, nil)
}

func (c *Client) Choose(ctx context.Context, item string) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodChoose, wsprotocol.ChooseParams{Item: item})
}

func (c *Client) Send(ctx context.Context) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodSend, nil)
}

func (c *Client) Acknowledge(ctx context.Context, ok bool) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodAcknowledge, wsprotocol.AcknowledgeParams{OK: ok})
}

func (c *Client) CloseMenu(ctx context.Context) (prompt.View, error) {
	return c.act(ctx, wsprotocol.MethodCloseMenu, nil)
}

// CloseSession ends the current session on the gateway.
func (c *Client) CloseSession(ctx context.Context) error {
	if c.SessionID() == "" {
		return ErrNoSession
	}
	if _, err := c.Call(ctx, wsprotocol.MethodCloseSession, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.sessionID = ""
	c.mu.Unlock()
	return nil
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "bye")
	c.cancel()
	return err
}
