// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// Empty-state text shown when no session is active.
const (
	WelcomeTitle    = "Welcome to Spectre AI"
	WelcomeSubtitle = "Start a new conversation to begin"
)

// WelcomeView renders the empty state centered in width x height.
func WelcomeView(t *styles.Theme, width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		t.Brand.Render("*"),
		"",
		t.WelcomeTitle.Render(WelcomeTitle),
		t.WelcomeSubtitle.Render(WelcomeSubtitle),
		"",
		t.ShortcutKey.Render("ctrl+n")+" "+t.ShortcutDesc.Render("new chat"),
	)
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
