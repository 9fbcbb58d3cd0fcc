// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// =============================================================================
// CHAT HEADER - assistant name, status dot and the two inert toggles
// =============================================================================

// Header is the title bar above the message list.
type Header struct {
	Title  string
	Status model.AssistantStatus
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a header showing the idle status.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:  "Spectre AI",
		Status: model.NewAssistantStatus(),
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetStatus updates the assistant status shown under the title.
func (h *Header) SetStatus(status model.AssistantStatus) {
	h.Status = status
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := maxInt(h.Width, 30)

	left := lipgloss.JoinHorizontal(lipgloss.Top,
		t.Avatar.Render("S"),
		" ",
		lipgloss.JoinVertical(lipgloss.Left,
			t.Brand.Render(h.Title),
			StatusLine(t, h.Status),
		),
	)

	right := lipgloss.JoinHorizontal(lipgloss.Center,
		h.toggle("mic", h.Status.IsListening),
		" ",
		h.toggle("speaker", h.Status.IsSpeaking),
	)

	// header padding takes 2 columns
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return t.Header.Width(width).Render(left)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
	return t.Header.Width(width).Render(row)
}

func (h *Header) toggle(name string, on bool) string {
	if on {
		return h.theme.ToggleOn.Render(name + " on")
	}
	return h.theme.ToggleOff.Render(name + " off")
}

// StatusLine renders the colored dot followed by the status label.
func StatusLine(t *styles.Theme, status model.AssistantStatus) string {
	return t.Dot(status.Indicator()) + " " + t.StatusLabel.Render(status.Label())
}
