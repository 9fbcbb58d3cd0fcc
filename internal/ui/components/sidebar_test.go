// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

func session(id, title string, updated time.Time, msgs int) model.ChatSession {
	s := model.NewChatSession()
	s.ID = id
	s.Title = title
	s.UpdatedAt = updated
	for i := 0; i < msgs; i++ {
		s.Messages = append(s.Messages, model.NewUserMessage("m"))
	}
	return s
}

// =============================================================================
// DAY GROUPING TESTS
// =============================================================================

func TestDayLabel(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"earlier today", time.Date(2025, 3, 14, 0, 5, 0, 0, time.Local), "Today"},
		{"future", now.Add(time.Hour), "Today"},
		{"late yesterday", time.Date(2025, 3, 13, 23, 59, 0, 0, time.Local), "Yesterday"},
		{"two days", time.Date(2025, 3, 12, 12, 0, 0, 0, time.Local), "2 days ago"},
		{"six days", time.Date(2025, 3, 8, 12, 0, 0, 0, time.Local), "6 days ago"},
		{"a week", time.Date(2025, 3, 7, 12, 0, 0, 0, time.Local), "Mar 7, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayLabel(tt.at, now); got != tt.want {
				t.Errorf("DayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupSessions_OrderOfFirstAppearance(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	sessions := []model.ChatSession{
		session("a", "A", now, 0),
		session("b", "B", yesterday, 0),
		session("c", "C", now, 0),
	}

	groups := GroupSessions(sessions, now)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Label != "Today" || len(groups[0].Sessions) != 2 {
		t.Errorf("first group = %s with %d sessions", groups[0].Label, len(groups[0].Sessions))
	}
	if groups[0].Sessions[1].ID != "c" {
		t.Errorf("sessions should keep list order, got %s", groups[0].Sessions[1].ID)
	}
	if groups[1].Label != "Yesterday" {
		t.Errorf("second group = %s, want Yesterday", groups[1].Label)
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func newTestSidebar(sessions []model.ChatSession, activeID string, now time.Time) *Sidebar {
	sb := NewSidebar(styles.NewTheme("dark"))
	sb.SetClock(func() time.Time { return now })
	sb.SetUser(model.NewUser("ada", "ada@example.com"))
	sb.SetSessions(sessions, activeID)
	sb.SetSize(30, 0)
	return sb
}

func TestSidebar_EmptyHistory(t *testing.T) {
	sb := newTestSidebar(nil, "", time.Now())

	view := sb.View()
	if !strings.Contains(view, "No chat history yet") {
		t.Errorf("empty sidebar should say so:\n%s", view)
	}
	if _, ok := sb.Selected(); ok {
		t.Error("Selected() should be false with no sessions")
	}
}

func TestSidebar_ViewShowsGroupsAndCounts(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)
	sb := newTestSidebar([]model.ChatSession{
		session("a", "Weekend plans", now, 3),
		session("b", "Tax questions", now.AddDate(0, 0, -1), 1),
	}, "a", now)

	view := sb.View()
	for _, want := range []string{"ada", "ada@example.com", "New Chat", "TODAY", "YESTERDAY", "Weekend plans", "3 messages", "1 message"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSidebar_TruncatesLongTitles(t *testing.T) {
	now := time.Now()
	long := strings.Repeat("長い", 30)
	sb := newTestSidebar([]model.ChatSession{session("a", long, now, 0)}, "a", now)

	if strings.Contains(sb.View(), long) {
		t.Error("long title should be truncated")
	}
}

func TestSidebar_CursorFollowsDisplayOrder(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)
	sb := newTestSidebar([]model.ChatSession{
		session("a", "A", now, 0),
		session("b", "B", now.AddDate(0, 0, -1), 0),
		session("c", "C", now, 0),
	}, "a", now)
	sb.SetFocused(true)

	sel, ok := sb.Selected()
	if !ok || sel.ID != "a" {
		t.Fatalf("cursor should start on the active session, got %q", sel.ID)
	}

	sb.MoveDown()
	if sel, _ := sb.Selected(); sel.ID != "c" {
		t.Errorf("second row should be c (same day as a), got %q", sel.ID)
	}
	sb.MoveDown()
	sb.MoveDown()
	if sel, _ := sb.Selected(); sel.ID != "b" {
		t.Errorf("cursor should stop on the last row, got %q", sel.ID)
	}
	sb.MoveUp()
	sb.MoveUp()
	sb.MoveUp()
	if sel, _ := sb.Selected(); sel.ID != "a" {
		t.Errorf("cursor should stop on the first row, got %q", sel.ID)
	}
}

func TestSidebar_ScrollKeepsCursorVisible(t *testing.T) {
	now := time.Now()
	var sessions []model.ChatSession
	for i := 0; i < 30; i++ {
		sessions = append(sessions, session(string(rune('a'+i%26))+strings.Repeat("x", i/26), "chat-"+strings.Repeat("z", i%5)+string(rune('A'+i%26)), now, 0))
	}
	sb := newTestSidebar(sessions, sessions[29].ID, now)
	sb.SetFocused(true)
	sb.SetSize(30, 20)

	view := sb.View()
	if !strings.Contains(view, ">") {
		t.Errorf("cursor row should be visible:\n%s", view)
	}
	if got := strings.Count(view, "\n") + 1; got > 20 {
		t.Errorf("view has %d lines, want at most 20", got)
	}
}
