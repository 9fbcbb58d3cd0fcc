// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Non-blocking notices shown above the input. Each notice expires on its own
// tick, so a newer notice is never cleared by an older one's timer.

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects the color and indicator of a toast.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Display durations
const (
	DefaultToastDuration = 4 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// ToastExpiredMsg clears the toast with the matching id.
type ToastExpiredMsg struct {
	ID int
}

// =============================================================================
// TOAST
// =============================================================================

// Toast holds at most one visible notice.
type Toast struct {
	id      int
	kind    ToastKind
	message string
	visible bool
}

// Show replaces the current notice and returns the command that expires it.
func (t *Toast) Show(kind ToastKind, message string) tea.Cmd {
	t.id++
	t.kind = kind
	t.message = message
	t.visible = true

	id := t.id
	d := DefaultToastDuration
	if kind == ToastError {
		d = ErrorToastDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Error shows err as an error notice.
func (t *Toast) Error(err error) tea.Cmd {
	return t.Show(ToastError, err.Error())
}

// Update hides the notice when its own timer fires.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastExpiredMsg); ok && m.ID == t.id {
		t.visible = false
	}
}

// Dismiss hides the notice immediately.
func (t *Toast) Dismiss() {
	t.visible = false
}

// IsVisible reports whether a notice is showing.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current notice text.
func (t *Toast) Message() string {
	return t.message
}

// View renders the notice with its shape indicator.
func (t *Toast) View() string {
	if !t.visible {
		return ""
	}
	switch t.kind {
	case ToastSuccess:
		return styles.RenderSuccess(t.message)
	case ToastWarning:
		return styles.RenderWarning(t.message)
	case ToastError:
		return styles.RenderError(t.message)
	default:
		return styles.RenderInfo(t.message)
	}
}
