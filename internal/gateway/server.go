// Package gateway serves prompt sessions over HTTP and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/gateway/ws"
	"github.com/dohr-michael/quickprompt/internal/sessions"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

// Server is the quickprompt gateway HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	manager    *sessions.Manager
	dataset    *texts.Dataset
	source     string
	host       string
	port       int
}

// Options configures a Server.
type Options struct {
	Bus     *events.Bus
	Manager *sessions.Manager
	// Dataset is the loaded predefined texts; nil when the load failed.
	Dataset *texts.Dataset
	// Source describes where Dataset came from.
	Source string
	Host   string
	Port   int
}

// NewServer creates a new gateway server.
func NewServer(opts Options) *Server {
	hub := ws.NewHub(opts.Bus, opts.Manager)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	s := &Server{
		hub:     hub,
		bus:     opts.Bus,
		manager: opts.Manager,
		dataset: opts.Dataset,
		source:  opts.Source,
		host:    opts.Host,
		port:    opts.Port,
	}

	// Routes
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ws", hub.ServeWS)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/sessions", s.handleSessions)
	r.Get("/api/texts", s.handleTexts)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Handler: r,
	}

	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("quickprompt gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server and every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	s.manager.CloseAll("server shutdown")
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("encode response", "error", err)
	}
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status      string `json:"status"`
	TextsLoaded bool   `json:"texts_loaded"`
	TextsSource string `json:"texts_source,omitempty"`
	Sessions    int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:      "ok",
		TextsLoaded: s.dataset != nil,
		TextsSource: s.source,
		Sessions:    len(s.manager.List()),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			http.Error(w, fmt.Sprintf("invalid limit %q", limitStr), http.StatusBadRequest)
			return
		}
		limit = n
	}

	history := s.bus.History(limit, r.URL.Query().Get("session_id"))

	type eventJSON struct {
		ID        string             `json:"id"`
		SessionID string             `json:"session_id,omitempty"`
		Type      string             `json:"type"`
		Timestamp string             `json:"timestamp"`
		Source    events.EventSource `json:"source"`
		Payload   map[string]any     `json:"payload"`
	}

	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			SessionID: e.SessionID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Source:    e.Source,
			Payload:   e.Payload,
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleTexts(w http.ResponseWriter, r *http.Request) {
	if s.dataset == nil {
		http.Error(w, texts.ErrNotLoaded.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.dataset)
}
