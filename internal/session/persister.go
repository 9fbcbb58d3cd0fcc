// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/spectre-tui/internal/model"
)

// Persister loads and saves the full session list.
type Persister interface {
	// Load returns the persisted list. found is false when nothing has been
	// persisted yet, which differs from a persisted empty list.
	Load() (sessions []model.ChatSession, found bool, err error)

	// Save replaces the persisted list.
	Save(sessions []model.ChatSession) error
}

// MemoryPersister keeps the list in memory. SaveErr, when set, makes every
// Save fail without storing anything.
type MemoryPersister struct {
	mu       sync.Mutex
	sessions []model.ChatSession
	found    bool
	saves    int

	SaveErr error
}

// NewMemoryPersister creates a persister with nothing stored.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// NewMemoryPersisterWith creates a persister that already holds sessions.
func NewMemoryPersisterWith(sessions []model.ChatSession) *MemoryPersister {
	return &MemoryPersister{sessions: model.CloneSessions(sessions), found: true}
}

// Load implements Persister.
func (p *MemoryPersister) Load() ([]model.ChatSession, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.found {
		return nil, false, nil
	}
	return model.CloneSessions(p.sessions), true, nil
}

// Save implements Persister.
func (p *MemoryPersister) Save(sessions []model.ChatSession) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SaveErr != nil {
		return p.SaveErr
	}
	p.sessions = model.CloneSessions(sessions)
	p.found = true
	p.saves++
	return nil
}

// Saved returns a copy of the last saved list.
func (p *MemoryPersister) Saved() []model.ChatSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.CloneSessions(p.sessions)
}

// Saves returns how many successful saves have happened.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
