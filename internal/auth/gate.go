// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login gate.
//
// Login stores whatever the user typed; nothing is verified against a
// backend. The only check is that both fields are non-blank. Logout removes
// the stored user and the whole chat history.
package auth

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUsernameRequired is returned by Login when the username is blank.
	ErrUsernameRequired = errors.New("username is required")

	// ErrEmailRequired is returned by Login when the email is blank.
	ErrEmailRequired = errors.New("email is required")
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// UserStore persists the logged-in user (storage.UserRepository).
type UserStore interface {
	Load() (model.User, bool, error)
	Save(model.User) error
	Remove() error
}

// HistoryStore is the part of the session repository that logout needs.
type HistoryStore interface {
	Remove() error
}

// =============================================================================
// GATE
// =============================================================================

// Gate decides whether the main interface or the login form is shown.
type Gate struct {
	users   UserStore
	history HistoryStore
	logger  *zap.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(logger *zap.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates a gate over the user and history stores.
func NewGate(users UserStore, history HistoryStore, opts ...GateOption) *Gate {
	g := &Gate{
		users:   users,
		history: history,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Current returns the stored user. ok is false when nobody is logged in.
func (g *Gate) Current() (user model.User, ok bool, err error) {
	user, ok, err = g.users.Load()
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to load user: %w", err)
	}
	return user, ok, nil
}

// Validate checks the form fields without storing anything.
func Validate(username, email string) error {
	u := model.NewUser(username, email)
	var errs []error
	if u.Username == "" {
		errs = append(errs, ErrUsernameRequired)
	}
	if u.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	return errors.Join(errs...)
}

// Login stores the user built from the form fields.
func (g *Gate) Login(username, email string) (model.User, error) {
	if err := Validate(username, email); err != nil {
		return model.User{}, err
	}
	user := model.NewUser(username, email)
	if err := g.users.Save(user); err != nil {
		g.logger.Error("failed to save user", zap.Error(err))
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}
	g.logger.Info("user logged in", zap.String("username", user.Username))
	return user, nil
}

// Logout removes the stored user and the chat history. Both removals are
// attempted even if the first fails.
func (g *Gate) Logout() error {
	var errs []error
	if err := g.users.Remove(); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove user: %w", err))
	}
	if err := g.history.Remove(); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove chat history: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		g.logger.Error("logout incomplete", zap.Error(err))
		return err
	}
	g.logger.Info("user logged out")
	return nil
}
