// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// View renders the visible screen. The confirmation dialog replaces the
// chat screen while it is open.
func (m Model) View() string {
	if m.screen == ScreenLogin {
		return m.login.View()
	}
	if m.confirm.IsVisible() {
		return m.confirm.View()
	}

	body := m.chat.View()
	if m.sidebarWidth() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m Model) footer() string {
	var keys help.KeyMap = chatHelp{m.keys}
	if m.focus == FocusSidebar {
		keys = sidebarHelp{m.keys}
	}
	return m.help.ShortHelpView(keys.ShortHelp())
}
