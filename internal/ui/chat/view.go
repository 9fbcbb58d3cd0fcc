// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders header, transcript, status line and input top to bottom.
func (m Model) View() string {
	var body string
	if m.hasSession {
		body = m.viewport.View()
	} else {
		body = components.WelcomeView(m.theme, m.width, m.viewport.Height)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.statusLine(),
		m.inputView(),
	)
}

// statusLine is the spinner while thinking, otherwise the current notice.
// It always takes one row so the layout does not jump.
func (m Model) statusLine() string {
	line := m.notice
	if m.spinner.IsActive() {
		line = m.spinner.View()
	}
	if line == "" {
		return " "
	}
	return line
}

func (m Model) inputView() string {
	t := m.theme
	content := m.input.View()
	if m.status.IsThinking {
		content = t.InputDisabled.Render("> Waiting for reply...")
	}
	return t.InputContainer.Width(maxInt(m.width, 10)).Render(content)
}

// chromeHeight is the number of rows used by everything but the transcript.
func (m Model) chromeHeight() int {
	return lipgloss.Height(m.header.View()) +
		lipgloss.Height(m.statusLine()) +
		lipgloss.Height(m.inputView())
}
