// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/spectre-tui/internal/model"
)

// DefaultOpTimeout bounds each repository call against the backend.
const DefaultOpTimeout = 5 * time.Second

// =============================================================================
// JSON HELPERS
// =============================================================================

// loadJSON decodes the blob under key into v. found is false when the key is
// absent.
func loadJSON(b Backend, timeout time.Duration, key string, v any) (found bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	data, err := b.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func saveJSON(b Backend, timeout time.Duration, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return b.Set(ctx, key, data)
}

func removeKey(b Backend, timeout time.Duration, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return b.Remove(ctx, key)
}

// =============================================================================
// SESSION REPOSITORY
// =============================================================================

// SessionRepository reads and writes the session list under "chatHistory".
type SessionRepository struct {
	backend Backend
	timeout time.Duration
}

// NewSessionRepository creates a repository over backend.
func NewSessionRepository(backend Backend) *SessionRepository {
	return &SessionRepository{backend: backend, timeout: DefaultOpTimeout}
}

// Load returns the persisted sessions. found is false when the key has never
// been written (or was removed), which is distinct from an empty list.
func (r *SessionRepository) Load() (sessions []model.ChatSession, found bool, err error) {
	found, err = loadJSON(r.backend, r.timeout, HistoryKey, &sessions)
	if err != nil || !found {
		return nil, found, err
	}
	if sessions == nil {
		sessions = []model.ChatSession{}
	}
	for i := range sessions {
		if sessions[i].Messages == nil {
			sessions[i].Messages = []model.ChatMessage{}
		}
	}
	return sessions, true, nil
}

// Save replaces the persisted list.
func (r *SessionRepository) Save(sessions []model.ChatSession) error {
	if sessions == nil {
		sessions = []model.ChatSession{}
	}
	return saveJSON(r.backend, r.timeout, HistoryKey, sessions)
}

// Remove deletes the "chatHistory" key entirely.
func (r *SessionRepository) Remove() error {
	return removeKey(r.backend, r.timeout, HistoryKey)
}

// =============================================================================
// USER REPOSITORY
// =============================================================================

// UserRepository reads and writes the user object under "spectreUser".
type UserRepository struct {
	backend Backend
	timeout time.Duration
}

// NewUserRepository creates a repository over backend.
func NewUserRepository(backend Backend) *UserRepository {
	return &UserRepository{backend: backend, timeout: DefaultOpTimeout}
}

// Load returns the stored user. found is false when nobody is logged in.
func (r *UserRepository) Load() (user model.User, found bool, err error) {
	found, err = loadJSON(r.backend, r.timeout, UserKey, &user)
	return user, found, err
}

// Save stores user as-is.
func (r *UserRepository) Save(user model.User) error {
	return saveJSON(r.backend, r.timeout, UserKey, user)
}

// Remove deletes the "spectreUser" key.
func (r *UserRepository) Remove() error {
	return removeKey(r.backend, r.timeout, UserKey)
}
