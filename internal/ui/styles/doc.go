// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors and lip gloss styles of the spectre TUI.

# Color System (colors.go)

All colors are lipgloss.AdaptiveColor values so one palette serves dark and
light terminals:

	Purple, Pink   - Brand gradient (avatar, new chat, selection)
	Cyan           - User name and key hints
	Rose, Amber    - Errors and warnings
	DotListening   - Status dot while the microphone toggle is on
	DotThinking    - Status dot while a reply is pending
	DotAnswering   - Status dot while answering
	DotIdle        - Status dot otherwise

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light" or "auto"
	theme.SetSize(width, height)
	if theme.ShowSidebar() {
		// render sidebar next to the chat
	}

NewTheme pins lip gloss to the chosen background so adaptive colors resolve
the same way everywhere, and GlamourStyle names the matching markdown style.
*/
package styles
