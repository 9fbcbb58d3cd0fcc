// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmAction identifies what a confirmation was asked for.
type ConfirmAction int

const (
	ConfirmNone ConfirmAction = iota
	ConfirmClearHistory
	ConfirmDeleteSession
	ConfirmLogout
)

// ConfirmResultMsg is sent when the dialog closes.
type ConfirmResultMsg struct {
	Action    ConfirmAction
	Confirmed bool
}

// Button options
const (
	ButtonCancel  = 0
	ButtonConfirm = 1
	ButtonCount   = 2
)

// ConfirmDialog is a modal yes/no dialog. Cancel is selected when it opens.
type ConfirmDialog struct {
	action       ConfirmAction
	title        string
	body         string
	confirmLabel string

	visible  bool
	selected int
	width    int
	height   int

	theme *styles.Theme
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{theme: theme}
}

// ShowClearHistory opens the dialog with the clear-history wording.
func (d *ConfirmDialog) ShowClearHistory() {
	d.Show(ConfirmClearHistory, "Clear History",
		"Are you sure you want to clear all chat history? This action cannot be undone.",
		"Clear")
}

// Show opens the dialog.
func (d *ConfirmDialog) Show(action ConfirmAction, title, body, confirmLabel string) {
	d.action = action
	d.title = title
	d.body = body
	d.confirmLabel = confirmLabel
	d.visible = true
	d.selected = ButtonCancel
}

// Hide closes the dialog without a result.
func (d *ConfirmDialog) Hide() {
	d.visible = false
	d.action = ConfirmNone
}

// IsVisible returns whether the dialog is open.
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Action returns the pending action.
func (d *ConfirmDialog) Action() ConfirmAction {
	return d.action
}

// SetSize updates the area the dialog is centered in.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles keys while the dialog is open. The bool reports whether the
// key was consumed.
func (d *ConfirmDialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !d.visible {
		return nil, false
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch key.String() {
	case "left", "h", "right", "l", "tab", "shift+tab":
		d.selected = (d.selected + 1) % ButtonCount
	case "enter", " ":
		return d.close(d.selected == ButtonConfirm), true
	case "esc", "n", "N":
		return d.close(false), true
	case "y", "Y":
		return d.close(true), true
	}
	// modal: swallow everything else
	return nil, true
}

func (d *ConfirmDialog) close(confirmed bool) tea.Cmd {
	action := d.action
	d.Hide()
	return func() tea.Msg {
		return ConfirmResultMsg{Action: action, Confirmed: confirmed}
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the dialog, centered when a size is set.
func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}
	t := d.theme

	boxWidth := 50
	if d.width > 0 && d.width < 60 {
		boxWidth = d.width - 6
	}
	boxWidth = maxInt(boxWidth, 30)

	var content strings.Builder
	content.WriteString(t.DialogTitle.Render(d.title))
	content.WriteString("\n")
	content.WriteString(t.DialogBody.Width(boxWidth - 4).Render(d.body))
	content.WriteString("\n")
	content.WriteString(d.renderButtons())
	content.WriteString("\n\n")
	content.WriteString(t.ShortcutDesc.Render("y=" + d.confirmLabel + "  n/Esc=Cancel  Tab=Switch"))

	box := t.DialogBox.Width(boxWidth).Render(content.String())

	if d.width > 0 && d.height > 0 {
		return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (d *ConfirmDialog) renderButtons() string {
	t := d.theme

	cancel := t.DialogButton.Render("Cancel")
	if d.selected == ButtonCancel {
		cancel = t.DialogButtonActive.Render("Cancel")
	}

	confirm := t.DialogButton.Render(d.confirmLabel)
	if d.selected == ButtonConfirm {
		confirm = t.DialogDanger.Render(d.confirmLabel)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, cancel, confirm)
}
