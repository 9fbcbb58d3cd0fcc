// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messenger implements the send flow: optimistic append of the user
// message, one request to the chat endpoint, then the reply or a fixed
// apology.
//
// The flow is split in three phases so the UI can run the network call as a
// background command:
//
//	p, err := m.Submit(text)         // append user message, status Thinking
//	res := m.Deliver(ctx, p)         // network only, safe off the UI loop
//	msg, err := m.Settle(res)        // append reply or apology, status idle
package messenger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
)

// ApologyMessage replaces the reply when a request fails for any reason.
const ApologyMessage = "Sorry, I encountered an error. Please try again."

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned by Submit for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned by Submit while a request is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrNoActiveSession is returned by Submit when no session is active.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionGone is returned by Settle when the originating session was
	// deleted while the request was in flight. The reply is dropped.
	ErrSessionGone = errors.New("session no longer exists")
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Sender delivers one message to the chat endpoint (chatapi.Client).
type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

// Store is the subset of session.Store the send flow mutates.
type Store interface {
	ActiveID() string
	AppendMessage(id string, msg model.ChatMessage) (model.ChatSession, error)
}

// =============================================================================
// PHASE RECORDS
// =============================================================================

// Pending describes a submitted message awaiting its reply.
type Pending struct {
	SessionID   string
	Text        string
	SubmittedAt time.Time
}

// Result is the outcome of Deliver.
type Result struct {
	Pending Pending
	Reply   string
	Err     error
	Elapsed time.Duration
}

// =============================================================================
// MESSENGER
// =============================================================================

// Messenger owns the assistant status and enforces one send at a time.
type Messenger struct {
	mu sync.Mutex

	store  Store
	sender Sender
	logger *zap.Logger

	status   model.AssistantStatus
	inFlight bool
}

// Option configures a Messenger.
type Option func(*Messenger)

// WithLogger sets the logger used for send outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Messenger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a messenger over store and sender.
func New(store Store, sender Sender, opts ...Option) *Messenger {
	m := &Messenger{
		store:  store,
		sender: sender,
		logger: zap.NewNop(),
		status: model.NewAssistantStatus(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the current assistant status.
func (m *Messenger) Status() model.AssistantStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Busy reports whether a request is in flight.
func (m *Messenger) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// ToggleListening flips the inert microphone toggle.
func (m *Messenger) ToggleListening() model.AssistantStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = m.status.ToggleListening()
	return m.status
}

// ToggleSpeaking flips the inert speaker toggle.
func (m *Messenger) ToggleSpeaking() model.AssistantStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = m.status.ToggleSpeaking()
	return m.status
}

// Submit trims text, appends it as a user message to the active session and
// marks the assistant as thinking. Blank input appends nothing.
func (m *Messenger) Submit(text string) (Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, ErrEmptyMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return Pending{}, ErrBusy
	}

	id := m.store.ActiveID()
	if id == "" {
		return Pending{}, ErrNoActiveSession
	}

	if _, err := m.store.AppendMessage(id, model.NewUserMessage(text)); err != nil {
		return Pending{}, fmt.Errorf("failed to record message: %w", err)
	}

	m.inFlight = true
	m.status = m.status.BeginThinking()
	m.logger.Debug("message submitted",
		zap.String("session", id),
		zap.Int("chars", len([]rune(text))))

	return Pending{SessionID: id, Text: text, SubmittedAt: time.Now()}, nil
}

// Deliver performs the network call for p. It touches no messenger state.
func (m *Messenger) Deliver(ctx context.Context, p Pending) Result {
	start := time.Now()
	reply, err := m.sender.Send(ctx, p.Text)
	return Result{
		Pending: p,
		Reply:   reply,
		Err:     err,
		Elapsed: time.Since(start),
	}
}

// Settle appends the reply, or the apology if delivery failed, to the
// session the message was sent from and returns the status to idle. The
// status is reset even when the append itself fails.
func (m *Messenger) Settle(res Result) (model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inFlight = false
	m.status = m.status.EndThinking()

	content := res.Reply
	if res.Err != nil {
		m.logger.Warn("chat request failed",
			zap.String("session", res.Pending.SessionID),
			zap.String("error_type", chatapi.TypeOf(res.Err).String()),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err))
		content = ApologyMessage
	} else {
		m.logger.Info("chat reply received",
			zap.String("session", res.Pending.SessionID),
			zap.Duration("elapsed", res.Elapsed))
	}

	msg := model.NewAssistantMessage(content)
	if _, err := m.store.AppendMessage(res.Pending.SessionID, msg); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			m.logger.Info("reply dropped, session deleted",
				zap.String("session", res.Pending.SessionID))
			return model.ChatMessage{}, ErrSessionGone
		}
		m.logger.Error("failed to record reply", zap.Error(err))
		return model.ChatMessage{}, fmt.Errorf("failed to record reply: %w", err)
	}
	return msg, nil
}

// Send runs all three phases synchronously. It is used by the line-mode
// client, which has no event loop.
func (m *Messenger) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	p, err := m.Submit(text)
	if err != nil {
		return model.ChatMessage{}, err
	}
	return m.Settle(m.Deliver(ctx, p))
}
