// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/spectre-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTitle is the title of a session that has no user message yet.
	DefaultTitle = "New Chat"

	// TitleMaxRunes is how many characters of the first user message become
	// the session title.
	TitleMaxRunes = 30
)

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession is one conversation thread. Messages are append-only and kept
// in insertion order.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewChatSession creates an empty session titled "New Chat".
func NewChatSession() ChatSession {
	now := time.Now()
	return ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle returns the title for a session whose first user message is
// content: the first 30 characters of the trimmed text, plus "..." when the
// text is longer.
func DeriveTitle(content string) string {
	return util.PrefixRunes(strings.TrimSpace(content), TitleMaxRunes)
}

// TitleFor returns the title s should carry after msg is appended. Only the
// first message of a session, when sent by the user, renames it.
func (s ChatSession) TitleFor(msg ChatMessage) string {
	if len(s.Messages) == 0 && msg.Role == RoleUser {
		if title := DeriveTitle(msg.Content); title != "" {
			return title
		}
	}
	return s.Title
}

// Append adds msg to the session, applies title derivation and bumps
// UpdatedAt.
func (s *ChatSession) Append(msg ChatMessage) {
	s.Title = s.TitleFor(msg)
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages in the session.
func (s ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty reports whether the session has no messages.
func (s ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, if any.
func (s ChatSession) LastMessage() (ChatMessage, bool) {
	if len(s.Messages) == 0 {
		return ChatMessage{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy of the session so callers cannot mutate the
// message slice owned by the store.
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = make([]ChatMessage, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// CloneSessions deep-copies a session list.
func CloneSessions(sessions []ChatSession) []ChatSession {
	out := make([]ChatSession, len(sessions))
	for i := range sessions {
		out[i] = sessions[i].Clone()
	}
	return out
}
