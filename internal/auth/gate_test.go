// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/storage"
)

func newTestGate(t *testing.T) (*Gate, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	return NewGate(storage.NewUserRepository(backend), storage.NewSessionRepository(backend)), backend
}

func TestGate_NoUserInitially(t *testing.T) {
	g, _ := newTestGate(t)
	_, ok, err := g.Current()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGate_LoginStoresUser(t *testing.T) {
	g, _ := newTestGate(t)

	user, err := g.Login("  ada ", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, model.User{Username: "ada", Email: "ada@example.com"}, user)

	current, ok, err := g.Current()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user, current)
}

func TestGate_LoginRequiresBothFields(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		want     []error
	}{
		{"blank username", "  ", "a@b.c", []error{ErrUsernameRequired}},
		{"blank email", "ada", "", []error{ErrEmailRequired}},
		{"both blank", "", "\t", []error{ErrUsernameRequired, ErrEmailRequired}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t)
			_, err := g.Login(tt.username, tt.email)
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Login error = %v, want %v", err, want)
				}
			}
			if _, ok, _ := g.Current(); ok {
				t.Error("invalid login stored a user")
			}
		})
	}
}

func TestGate_EmailIsNotValidated(t *testing.T) {
	g, _ := newTestGate(t)
	_, err := g.Login("ada", "not-an-email")
	require.NoError(t, err)
}

func TestGate_LogoutRemovesBothKeys(t *testing.T) {
	g, backend := newTestGate(t)
	_, err := g.Login("ada", "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, storage.NewSessionRepository(backend).Save([]model.ChatSession{model.NewChatSession()}))

	require.NoError(t, g.Logout())

	ctx := context.Background()
	_, err = backend.Get(ctx, storage.UserKey)
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
	_, err = backend.Get(ctx, storage.HistoryKey)
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
}

type failingRemover struct{ err error }

func (f failingRemover) Remove() error { return f.err }

func TestGate_LogoutAttemptsBothRemovals(t *testing.T) {
	backend := storage.NewMemoryBackend()
	users := storage.NewUserRepository(backend)
	require.NoError(t, users.Save(model.User{Username: "ada", Email: "a@b"}))

	boom := errors.New("boom")
	g := NewGate(users, failingRemover{err: boom})

	err := g.Logout()
	require.ErrorIs(t, err, boom)

	_, ok, _ := users.Load()
	require.False(t, ok, "user should be removed even when history removal fails")
}
