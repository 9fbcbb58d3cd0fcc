// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// =============================================================================
// DAY GROUPING
// =============================================================================

// DayLabel names the day group of t relative to now: "Today", "Yesterday",
// "N days ago" within a week, otherwise the date.
func DayLabel(t, now time.Time) string {
	days := daysBetween(t, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return plural(days, "day") + " ago"
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

// SessionGroup is a run of sessions sharing a day label.
type SessionGroup struct {
	Label    string
	Sessions []model.ChatSession
}

// GroupSessions groups sessions by the day of UpdatedAt. Groups appear in
// the order their first session appears; sessions keep their list order.
func GroupSessions(sessions []model.ChatSession, now time.Time) []SessionGroup {
	var groups []SessionGroup
	index := make(map[string]int)
	for _, s := range sessions {
		label := DayLabel(s.UpdatedAt, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, SessionGroup{Label: label})
		}
		groups[i].Sessions = append(groups[i].Sessions, s)
	}
	return groups
}

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar shows the signed-in user and the session list. The cursor moves
// independently of the active session until Enter selects it.
type Sidebar struct {
	user     model.User
	sessions []model.ChatSession
	activeID string
	cursor   int
	focused  bool

	width  int
	height int
	now    func() time.Time

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		theme: theme,
		width: 28,
		now:   time.Now,
	}
}

// SetUser sets the user shown in the sidebar header.
func (s *Sidebar) SetUser(u model.User) {
	s.user = u
}

// SetSessions replaces the list and moves the cursor to the active session.
func (s *Sidebar) SetSessions(sessions []model.ChatSession, activeID string) {
	s.sessions = sessions
	s.activeID = activeID
	s.cursor = 0
	for i, sess := range s.ordered() {
		if sess.ID == activeID {
			s.cursor = i
			break
		}
	}
}

// ordered returns the sessions in display order, group by group.
func (s *Sidebar) ordered() []model.ChatSession {
	out := make([]model.ChatSession, 0, len(s.sessions))
	for _, g := range GroupSessions(s.sessions, s.now()) {
		out = append(out, g.Sessions...)
	}
	return out
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the rendered width including the border.
func (s *Sidebar) Width() int {
	return s.width
}

// SetClock replaces the clock used for day labels.
func (s *Sidebar) SetClock(now func() time.Time) {
	s.now = now
}

// SetFocused toggles keyboard focus.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// MoveUp moves the cursor to the previous session.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor to the next session.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
}

// Selected returns the session under the cursor.
func (s *Sidebar) Selected() (model.ChatSession, bool) {
	ordered := s.ordered()
	if s.cursor < 0 || s.cursor >= len(ordered) {
		return model.ChatSession{}, false
	}
	return ordered[s.cursor], true
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the sidebar.
func (s *Sidebar) View() string {
	t := s.theme
	inner := maxInt(s.width-3, 10) // border and padding

	var lines []string

	// User header
	if s.user.Username != "" {
		lines = append(lines,
			t.Avatar.Render(s.user.Initial())+" "+
				t.SidebarUser.Render(util.TruncateWidth(s.user.Username, inner-4)),
			t.SidebarEmail.Render(util.TruncateWidth(s.user.Email, inner)),
			"")
	}
	lines = append(lines, t.NewChatButton.Width(inner).Render("+ New Chat"))

	heading := "Chat History"
	if s.focused {
		heading += " *"
	}
	lines = append(lines, t.SidebarHeading.Render(heading))

	header := strings.Join(lines, "\n")
	list, cursorLine := s.renderList(inner)

	// Keep the cursor row and its meta line visible
	if s.height > 0 {
		avail := maxInt(s.height-lipgloss.Height(header), 1)
		if len(list) > avail {
			start := 0
			if cursorLine+2 > avail {
				start = minInt(cursorLine+2-avail, len(list)-avail)
			}
			list = list[start : start+avail]
		}
	}

	body := header + "\n" + strings.Join(list, "\n")
	style := t.Sidebar.Width(maxInt(s.width-1, 1))
	if s.height > 0 {
		style = style.Height(s.height)
	}
	return style.Render(body)
}

// renderList returns the list as single lines and the line index of the
// cursor row.
func (s *Sidebar) renderList(inner int) ([]string, int) {
	t := s.theme
	if len(s.sessions) == 0 {
		empty := t.EmptyHistory.Render("No chat history yet") + "\n" +
			t.SessionMeta.Render(util.TruncateWidth("Start a conversation to see your chats here", inner))
		return strings.Split(empty, "\n"), 0
	}

	var rows []string
	cursorLine := 0
	pos := 0
	for _, g := range GroupSessions(s.sessions, s.now()) {
		rows = append(rows, strings.Split(t.GroupHeading.Render(strings.ToUpper(g.Label)), "\n")...)
		for _, sess := range g.Sessions {
			title := util.TruncateWidth(util.SingleLine(sess.Title), inner-2)
			title = runewidth.FillRight(title, inner-2)

			style := t.SessionItem
			if sess.ID == s.activeID {
				style = t.SessionItemSelected
			}
			marker := " "
			if s.focused && pos == s.cursor {
				marker = ">"
				cursorLine = len(rows)
			}
			rows = append(rows,
				marker+style.Render(title),
				" "+t.SessionMeta.Render(plural(sess.MessageCount(), "message")))
			pos++
		}
	}
	return rows, cursorLine
}
