// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// USER TESTS
// =============================================================================

func TestNewUser_Trims(t *testing.T) {
	u := NewUser("  ada ", "\tada@example.com\n")
	if u.Username != "ada" || u.Email != "ada@example.com" {
		t.Errorf("NewUser = %+v, want trimmed fields", u)
	}
}

func TestUser_IsComplete(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"both set", User{Username: "ada", Email: "a@b.c"}, true},
		{"no email", User{Username: "ada"}, false},
		{"no username", User{Email: "a@b.c"}, false},
		{"blank", User{Username: "  ", Email: " "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Initial(t *testing.T) {
	if got := (User{Username: "ada"}).Initial(); got != "A" {
		t.Errorf("Initial() = %q, want %q", got, "A")
	}
	if got := (User{}).Initial(); got != "?" {
		t.Errorf("Initial() = %q, want %q", got, "?")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	before := time.Now()
	m := NewUserMessage("hi")
	if m.ID == "" {
		t.Error("expected generated ID")
	}
	if m.Role != RoleUser {
		t.Errorf("Role = %q, want %q", m.Role, RoleUser)
	}
	if m.Timestamp.Before(before) {
		t.Error("Timestamp should be set to now")
	}

	a := NewAssistantMessage("hello")
	if a.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", a.Role, RoleAssistant)
	}
	if a.ID == m.ID {
		t.Error("IDs should be unique")
	}
}

func TestRole(t *testing.T) {
	if !RoleUser.IsValid() || !RoleAssistant.IsValid() {
		t.Error("known roles should be valid")
	}
	if Role("system").IsValid() {
		t.Error("system role should not be valid")
	}
	if RoleAssistant.DisplayName() != "Spectre" {
		t.Errorf("DisplayName = %q", RoleAssistant.DisplayName())
	}
}

func TestMessage_Preview(t *testing.T) {
	m := NewUserMessage("first line\nsecond line")
	if got := m.Preview(100); got != "first line second line" {
		t.Errorf("Preview = %q", got)
	}
	if got := m.Preview(8); got != "first..." {
		t.Errorf("Preview(8) = %q", got)
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewChatSession(t *testing.T) {
	s := NewChatSession()
	if s.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, DefaultTitle)
	}
	if len(s.Messages) != 0 {
		t.Errorf("Messages = %d, want 0", len(s.Messages))
	}
	if s.ID == "" {
		t.Error("expected generated ID")
	}
	if !s.CreatedAt.Equal(s.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on creation")
	}
}

func TestDeriveTitle(t *testing.T) {
	exact := strings.Repeat("x", 30)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "Hello!", "Hello!"},
		{"exactly thirty", exact, exact},
		{"thirty one", exact + "y", exact + "..."},
		{"trimmed", "   padded   ", "padded"},
		{"long sentence", "What is the capital city of Australia, please?", "What is the capital city of Au..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestAppend_FirstUserMessageSetsTitle(t *testing.T) {
	s := NewChatSession()
	s.Append(NewUserMessage("Hello!"))
	if s.Title != "Hello!" {
		t.Errorf("Title = %q, want %q", s.Title, "Hello!")
	}

	s.Append(NewUserMessage("A different second message"))
	if s.Title != "Hello!" {
		t.Errorf("second message changed title to %q", s.Title)
	}
}

func TestAppend_AssistantFirstKeepsDefaultTitle(t *testing.T) {
	s := NewChatSession()
	s.Append(NewAssistantMessage("Welcome"))
	if s.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, DefaultTitle)
	}
}

func TestAppend_BumpsUpdatedAt(t *testing.T) {
	s := NewChatSession()
	s.UpdatedAt = time.Now().Add(-time.Hour)
	s.Append(NewUserMessage("hi"))
	if time.Since(s.UpdatedAt) > time.Minute {
		t.Error("UpdatedAt not bumped")
	}
	if len(s.Messages) != 1 {
		t.Errorf("Messages = %d, want 1", len(s.Messages))
	}
}

func TestClone_Independent(t *testing.T) {
	s := NewChatSession()
	s.Append(NewUserMessage("one"))
	c := s.Clone()
	c.Messages[0].Content = "changed"
	if s.Messages[0].Content != "one" {
		t.Error("Clone shares message storage with original")
	}
}

func TestLastMessage(t *testing.T) {
	s := NewChatSession()
	if _, ok := s.LastMessage(); ok {
		t.Error("empty session should have no last message")
	}
	s.Append(NewUserMessage("one"))
	s.Append(NewAssistantMessage("two"))
	last, ok := s.LastMessage()
	if !ok || last.Content != "two" {
		t.Errorf("LastMessage = %q, %v", last.Content, ok)
	}
}

func TestSession_JSONShape(t *testing.T) {
	s := NewChatSession()
	s.Append(NewUserMessage("hi"))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"createdAt"`, `"updatedAt"`, `"messages"`, `"role":"user"`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
}

// =============================================================================
// STATUS TESTS
// =============================================================================

func TestAssistantStatus_ThinkingCycle(t *testing.T) {
	st := NewAssistantStatus()
	if st.Label() != LabelAvailable || !st.IsIdle() {
		t.Fatalf("initial = %+v", st)
	}

	st = st.BeginThinking()
	if st.Label() != LabelThinking || st.IsIdle() {
		t.Errorf("after BeginThinking = %+v", st)
	}
	if st.Indicator() != IndicatorThinking {
		t.Errorf("Indicator = %v, want thinking", st.Indicator())
	}

	st = st.EndThinking()
	if st.Label() != LabelAvailable || !st.IsIdle() {
		t.Errorf("after EndThinking = %+v", st)
	}
}

func TestAssistantStatus_ZeroValueLabel(t *testing.T) {
	var st AssistantStatus
	if st.Label() != LabelAvailable {
		t.Errorf("Label() = %q, want %q", st.Label(), LabelAvailable)
	}
}

func TestAssistantStatus_ToggleListening(t *testing.T) {
	st := NewAssistantStatus().ToggleListening()
	if !st.IsListening || st.Label() != LabelListening {
		t.Errorf("after toggle on = %+v", st)
	}
	if st.Indicator() != IndicatorListening {
		t.Errorf("Indicator = %v, want listening", st.Indicator())
	}
	st = st.ToggleListening()
	if st.IsListening || st.Label() != LabelAvailable {
		t.Errorf("after toggle off = %+v", st)
	}
}

func TestAssistantStatus_ListeningLayersOverThinking(t *testing.T) {
	st := NewAssistantStatus().BeginThinking().ToggleListening()
	if !st.IsThinking {
		t.Error("listening toggle should not clear thinking")
	}
	st = st.ToggleListening()
	if st.Label() != LabelThinking {
		t.Errorf("Label() = %q, want %q", st.Label(), LabelThinking)
	}
}

func TestAssistantStatus_EndThinkingKeepsToggleLabel(t *testing.T) {
	tests := []struct {
		name      string
		listening bool
		speaking  bool
		want      string
		indicator Indicator
	}{
		{"neither", false, false, LabelAvailable, IndicatorIdle},
		{"listening", true, false, LabelListening, IndicatorListening},
		{"speaking", false, true, LabelSpeaking, IndicatorIdle},
		{"both", true, true, LabelListening, IndicatorListening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewAssistantStatus()
			st.IsListening = tt.listening
			st.IsSpeaking = tt.speaking

			st = st.BeginThinking().EndThinking()
			if st.Label() != tt.want {
				t.Errorf("Label() = %q, want %q", st.Label(), tt.want)
			}
			if st.Indicator() != tt.indicator {
				t.Errorf("Indicator() = %v, want %v", st.Indicator(), tt.indicator)
			}
		})
	}
}

func TestAssistantStatus_ToggleSpeaking(t *testing.T) {
	st := NewAssistantStatus().ToggleSpeaking()
	if !st.IsSpeaking || st.Label() != LabelSpeaking {
		t.Errorf("after toggle on = %+v", st)
	}

	st = st.BeginThinking()
	if st.Label() != LabelThinking {
		t.Errorf("thinking should take the label, got %q", st.Label())
	}
	st = st.EndThinking()
	if !st.IsSpeaking {
		t.Error("EndThinking should not clear speaking")
	}
	if st.Label() != LabelSpeaking {
		t.Errorf("Label() after EndThinking = %q, want %q", st.Label(), LabelSpeaking)
	}

	st = st.ToggleSpeaking()
	if st.IsSpeaking || st.Label() != LabelAvailable {
		t.Errorf("after toggle off = %+v", st)
	}
}
