// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSessionNotFound is returned when an operation names an unknown id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNilPersister is returned by Open without a persister.
	ErrNilPersister = errors.New("session store requires a persister")
)

// =============================================================================
// PATCH
// =============================================================================

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title    *string
	Messages []model.ChatMessage
}

// TitlePatch returns a Patch that only sets the title.
func TitlePatch(title string) Patch {
	return Patch{Title: &title}
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the session list (most recent first) and the active pointer.
type Store struct {
	mu sync.Mutex

	persister Persister
	logger    *zap.Logger
	now       func() time.Time

	sessions []model.ChatSession
	activeID string

	skipInitial bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithoutInitialSession makes Open leave an absent history absent instead
// of creating and saving the initial session.
func WithoutInitialSession() Option {
	return func(s *Store) {
		s.skipInitial = true
	}
}

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open loads persisted sessions. When nothing was persisted an initial
// session is created and saved, unless WithoutInitialSession is given;
// otherwise the first loaded session becomes active. A persisted but empty
// list leaves no session active.
func Open(p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, ErrNilPersister
	}
	s := &Store{
		persister: p,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	sessions, found, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	if !found && s.skipInitial {
		s.logger.Debug("no chat history found")
		return s, nil
	}
	if !found {
		s.logger.Info("no chat history found, creating initial session")
		if _, err := s.Create(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.sessions = sessions
	if len(sessions) > 0 {
		s.activeID = sessions[0].ID
	}
	s.logger.Info("chat history loaded", zap.Int("sessions", len(sessions)))
	return s, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Sessions returns a copy of the session list.
func (s *Store) Sessions() []model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneSessions(s.sessions)
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ActiveID returns the active session id, or "" when none is active.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns a copy of the active session.
func (s *Store) Active() (model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.sessions[i].Clone(), true
	}
	return model.ChatSession{}, false
}

// Get returns a copy of the session with id.
func (s *Store) Get(id string) (model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.sessions[i].Clone(), true
	}
	return model.ChatSession{}, false
}

// Search returns sessions whose title or any message contains query,
// case-insensitively. An empty query returns every session.
func (s *Store) Search(query string) []model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return model.CloneSessions(s.sessions)
	}

	var results []model.ChatSession
	for _, sess := range s.sessions {
		if strings.Contains(strings.ToLower(sess.Title), query) {
			results = append(results, sess.Clone())
			continue
		}
		for _, msg := range sess.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, sess.Clone())
				break
			}
		}
	}
	return results
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create prepends a new empty session and makes it active.
func (s *Store) Create() (model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.newSession()
	next := append([]model.ChatSession{sess}, s.sessions...)
	if err := s.commit(next, sess.ID, "create"); err != nil {
		return model.ChatSession{}, err
	}
	return sess.Clone(), nil
}

// Select makes an existing session active.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.activeID = id
	return nil
}

// Update merges patch into the session with id and bumps UpdatedAt.
func (s *Store) Update(id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next := model.CloneSessions(s.sessions)
	if patch.Title != nil {
		next[i].Title = *patch.Title
	}
	if patch.Messages != nil {
		next[i].Messages = append([]model.ChatMessage(nil), patch.Messages...)
	}
	next[i].UpdatedAt = s.now()

	return s.commit(next, s.activeID, "update")
}

// AppendMessage appends msg to the session with id, deriving the title when
// msg is the session's first user message. It returns the updated session.
func (s *Store) AppendMessage(id string, msg model.ChatMessage) (model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.ChatSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next := model.CloneSessions(s.sessions)
	next[i].Title = next[i].TitleFor(msg)
	next[i].Messages = append(next[i].Messages, msg)
	next[i].UpdatedAt = s.now()

	if err := s.commit(next, s.activeID, "append"); err != nil {
		return model.ChatSession{}, err
	}
	return s.sessions[i].Clone(), nil
}

// Delete removes the session with id. If it was active, the first remaining
// session becomes active. If no sessions remain a fresh one is created.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next := make([]model.ChatSession, 0, len(s.sessions))
	next = append(next, s.sessions[:i]...)
	next = append(next, s.sessions[i+1:]...)

	activeID := s.activeID
	if len(next) == 0 {
		fresh := s.newSession()
		next = append(next, fresh)
		activeID = fresh.ID
	} else if activeID == id {
		activeID = next[0].ID
	}

	return s.commit(next, activeID, "delete")
}

// Clear wipes every session and leaves exactly one fresh, active session.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := s.newSession()
	return s.commit([]model.ChatSession{fresh}, fresh.ID, "clear")
}

// =============================================================================
// HELPERS
// =============================================================================

// commit persists next and, on success, installs it as the current state.
// Caller must hold s.mu.
func (s *Store) commit(next []model.ChatSession, activeID, op string) error {
	if err := s.persister.Save(next); err != nil {
		s.logger.Error("failed to persist chat history",
			zap.String("op", op),
			zap.Error(err))
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	s.sessions = next
	s.activeID = activeID
	s.logger.Debug("chat history saved",
		zap.String("op", op),
		zap.Int("sessions", len(next)),
		zap.String("active", activeID))
	return nil
}

// indexOf returns the index of the session with id, or -1.
// Caller must hold s.mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newSession() model.ChatSession {
	sess := model.NewChatSession()
	now := s.now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	return sess
}
