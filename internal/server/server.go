// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr matches the client's default endpoint.
	DefaultAddr = "127.0.0.1:5000"

	// MaxRequestBodySize caps request bodies (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxHistory bounds the in-memory transcript.
	MaxHistory = 1000

	// EchoPrefix is prepended to every reply.
	EchoPrefix = "Echo: "
)

// ============================================================================
// WIRE TYPES
// ============================================================================

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse echoes the user back.
type LoginResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

// HistoryResponse is the body of GET /api/chat/history.
type HistoryResponse struct {
	Success  bool                `json:"success"`
	Messages []model.ChatMessage `json:"messages"`
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"`
	IsListening bool   `json:"isListening"`
	IsThinking  bool   `json:"isThinking"`
	IsAnswering bool   `json:"isAnswering"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Messages int    `json:"messages"`
}

// Responder produces a reply and the routing decision for a message.
type Responder func(message string) (reply string, decision []string)

// Echo replies with the message prefixed by EchoPrefix.
func Echo(message string) (string, []string) {
	return EchoPrefix + message, []string{"general " + message}
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the development chat endpoint. It keeps a transcript of what
// it has seen so the history, clear and status routes have something to
// report.
type Server struct {
	addr   string
	router chi.Router

	srvMu  sync.Mutex
	server *http.Server

	logger    *zap.Logger
	limiter   *RateLimiter
	cors      *CORSConfig
	responder Responder
	started   time.Time

	mu      sync.Mutex
	history []model.ChatMessage
	status  model.AssistantStatus
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRateLimiter replaces the default per-IP limiter. Nil disables limiting.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// WithCORS replaces the default CORS allowlist.
func WithCORS(cfg *CORSConfig) Option {
	return func(s *Server) {
		if cfg != nil {
			s.cors = cfg
		}
	}
}

// WithResponder replaces the echo reply.
func WithResponder(r Responder) Option {
	return func(s *Server) {
		if r != nil {
			s.responder = r
		}
	}
}

// New creates a Server listening on addr (DefaultAddr when empty).
func New(addr string, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:      addr,
		logger:    zap.NewNop(),
		limiter:   DefaultRateLimiter(),
		cors:      DefaultCORSConfig(),
		responder: Echo,
		started:   time.Now(),
		status:    model.NewAssistantStatus(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(LoggingMiddleware(s.logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(CORSMiddleware(s.cors))
	if s.limiter != nil {
		r.Use(RateLimitMiddleware(s.limiter, s.logger))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", s.handleLogin)
		api.Post("/chat/send", s.handleSend)
		api.Get("/chat/history", s.handleHistory)
		api.Post("/chat/clear", s.handleClear)
		api.Get("/status", s.handleStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})

	return r
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user := model.NewUser(req.Username, req.Email)
	if !user.IsComplete() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Username and email are required"})
		return
	}

	s.logger.Info("login", zap.String("username", user.Username))
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, User: user})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req chatapi.SendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Message is required"})
		return
	}

	s.setThinking(true)
	reply, decision := s.responder(req.Message)
	s.setThinking(false)

	s.record(model.NewUserMessage(req.Message), model.NewAssistantMessage(reply))

	success := true
	writeJSON(w, http.StatusOK, chatapi.SendResponse{
		Success:  &success,
		Response: &reply,
		Decision: decision,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HistoryResponse{Success: true, Messages: s.History()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	s.logger.Info("history cleared")
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Success:     true,
		Status:      st.Label(),
		IsListening: st.IsListening,
		IsThinking:  st.IsThinking,
		IsAnswering: st.IsAnswering,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.history)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Messages: n,
	})
}

// ============================================================================
// STATE
// ============================================================================

// History returns a copy of the transcript.
func (s *Server) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Server) record(msgs ...model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
	if over := len(s.history) - MaxHistory; over > 0 {
		s.history = append([]model.ChatMessage(nil), s.history[over:]...)
	}
}

func (s *Server) setThinking(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.status = s.status.BeginThinking()
	} else {
		s.status = s.status.EndThinking()
	}
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start listens and serves until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	hs := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.srvMu.Lock()
	s.server = hs
	s.srvMu.Unlock()

	s.logger.Info("echo server listening", zap.String("addr", s.addr))
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("echo server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.srvMu.Lock()
	hs := s.server
	s.srvMu.Unlock()
	if hs == nil {
		return nil
	}
	s.logger.Info("echo server shutting down")
	return hs.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// decodeBody reads a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errors.New("request body too large")
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		default:
			return errors.New("invalid JSON body")
		}
	}
	return nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
