package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/prompt"
	"github.com/dohr-michael/quickprompt/internal/sessions"
)

var errNotOwner = errors.New("session is not owned by this connection")

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	mu       sync.Mutex
	sessions map[string]struct{}
}

// Hub manages WebSocket clients and bridges them to the event bus. Session
// events are only forwarded to the client that opened the session.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	owners      map[string]*Client
	bus         *events.Bus
	manager     *sessions.Manager
	unsubscribe func()
}

// NewHub creates a new WebSocket hub connected to an event bus.
func NewHub(bus *events.Bus, manager *sessions.Manager) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		owners:  make(map[string]*Client),
		bus:     bus,
		manager: manager,
	}

	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		frame, err := NewEventFrame(string(e.Type), e.SessionID, e.Payload)
		if err != nil {
			slog.Error("marshal event frame", "error", err)
			return
		}
		data, err := MarshalFrame(frame)
		if err != nil {
			slog.Error("marshal frame", "error", err)
			return
		}
		if e.SessionID == "" {
			h.broadcast(data)
			return
		}
		h.route(e.SessionID, data)
	})

	return h
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		c.enqueue(data)
	}
}

// route sends data to the owner of a session, if connected.
func (h *Hub) route(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.owners[sessionID]; ok {
		c.enqueue(data)
	}
}

// register adds a client to the hub.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("ws client connected", "clients", len(h.clients))
}

// unregister removes a client from the hub and closes its sessions.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	owned := c.ownedSessions()
	for _, id := range owned {
		delete(h.owners, id)
	}
	close(c.send)
	remaining := len(h.clients)
	h.mu.Unlock()

	for _, id := range owned {
		if err := h.manager.Close(id, "client disconnected"); err != nil && !errors.Is(err, sessions.ErrNotFound) {
			slog.Warn("close session", "session_id", id, "error", err)
		}
	}
	slog.Info("ws client disconnected", "clients", remaining)
}

func (h *Hub) own(c *Client, sessionID string) {
	h.mu.Lock()
	h.owners[sessionID] = c
	h.mu.Unlock()

	c.mu.Lock()
	c.sessions[sessionID] = struct{}{}
	c.mu.Unlock()
}

func (h *Hub) disown(c *Client, sessionID string) {
	h.mu.Lock()
	if h.owners[sessionID] == c {
		delete(h.owners, sessionID)
	}
	h.mu.Unlock()

	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow any origin for dev
	})
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		hub:      h,
		sessions: make(map[string]struct{}),
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

func (c *Client) ownedSessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (c *Client) owns(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[sessionID]
	return ok
}

// enqueue must be called with the hub lock held, so that send is not closed
// concurrently.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		// Client too slow, skip
	}
}

// readPump reads frames from the WS connection and dispatches them.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			slog.Error("ws unmarshal frame", "error", err)
			continue
		}

		c.handleFrame(ctx, frame)
	}
}

// handleFrame processes an incoming WS frame.
func (c *Client) handleFrame(ctx context.Context, frame Frame) {
	switch frame.Type {
	case FrameTypeRequest:
		c.handleRequest(ctx, frame)
	default:
		slog.Debug("ws unknown frame type", "type", frame.Type)
	}
}

// handleRequest processes a request frame (method dispatch).
func (c *Client) handleRequest(ctx context.Context, frame Frame) {
	ctx = events.ContextWithSessionID(ctx, frame.SessionID)

	switch Method(frame.Method) {
	case MethodOpenSession:
		s, err := c.hub.manager.Create(ctx, func(id string) { c.hub.own(c, id) })
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		view, err := json.Marshal(s.View())
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, SessionOpened{SessionID: s.ID, View: view})

	case MethodCloseSession:
		if !c.owns(frame.SessionID) {
			c.sendError(frame.ID, errNotOwner.Error())
			return
		}
		c.hub.disown(c, frame.SessionID)
		if err := c.hub.manager.Close(frame.SessionID, "closed by client"); err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, map[string]string{"status": "closed"})

	case MethodGetView:
		c.act(ctx, frame, func(*prompt.Controller) error { return nil })

	case MethodClick:
		c.act(ctx, frame, func(pc *prompt.Controller) error { return pc.Click() })

	case MethodChoose:
		var params ChooseParams
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(frame.ID, "invalid params")
			return
		}
		item, err := prompt.ParseMenuItem(params.Item)
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.act(ctx, frame, func(pc *prompt.Controller) error { return pc.Choose(item) })

	case MethodSend:
		c.act(ctx, frame, func(pc *prompt.Controller) error { return pc.Send() })

	case MethodAcknowledge:
		var params AcknowledgeParams
		if len(frame.Params) > 0 {
			if err := json.Unmarshal(frame.Params, &params); err != nil {
				c.sendError(frame.ID, "invalid params")
				return
			}
		}
		c.act(ctx, frame, func(pc *prompt.Controller) error {
			pc.Acknowledge(params.OK)
			return nil
		})

	case MethodCloseMenu:
		c.act(ctx, frame, func(pc *prompt.Controller) error {
			pc.CloseMenu()
			return nil
		})

	default:
		c.sendError(frame.ID, "unknown method: "+frame.Method)
	}
}

// act runs fn on the session named by the frame and answers with the
// resulting view.
func (c *Client) act(ctx context.Context, frame Frame, fn func(*prompt.Controller) error) {
	sessionID := events.SessionIDFromContext(ctx)
	if !c.owns(sessionID) {
		c.sendError(frame.ID, errNotOwner.Error())
		return
	}
	s, err := c.hub.manager.Get(sessionID)
	if err != nil {
		c.sendError(frame.ID, err.Error())
		return
	}
	if err := s.Do(ctx, fn); err != nil {
		slog.Debug("ws action failed", "session_id", sessionID, "method", frame.Method, "error", err)
		c.sendError(frame.ID, fmt.Sprintf("%s: %v", frame.Method, err))
		return
	}
	c.sendOK(frame.ID, s.View())
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendOK(id string, payload any) {
	c.reply(NewResponseFrame(id, true, payload, ""))
}

func (c *Client) sendError(id string, errMsg string) {
	c.reply(NewResponseFrame(id, false, nil, errMsg))
}

func (c *Client) reply(f Frame, err error) {
	if err != nil {
		return
	}
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; ok {
		c.enqueue(data)
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}
