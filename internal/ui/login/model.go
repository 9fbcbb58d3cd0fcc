// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in form shown before the chat screen.
//
// The form collects a username and an email. It validates both fields with
// auth.Validate and emits SubmitMsg; storing the user is left to the parent.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/auth"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// Form text
const (
	Title    = "Welcome to Spectre AI"
	Subtitle = "Sign in to continue"
)

// Field indexes
const (
	fieldUsername = iota
	fieldEmail
	fieldCount
)

// SubmitMsg carries the validated form fields.
type SubmitMsg struct {
	Username string
	Email    string
}

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the form bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the sign-in form.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
	width  int
	height int
}

// New creates an empty form with the username field focused.
func New(theme *styles.Theme) Model {
	m := Model{
		theme:  theme,
		keyMap: DefaultKeyMap(),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 32
		ti.Prompt = ""
		ti.PlaceholderStyle = theme.InputPlaceholder
		m.inputs[i] = ti
	}
	m.inputs[fieldUsername].Placeholder = "Enter your username"
	m.inputs[fieldEmail].Placeholder = "Enter your email"
	m.inputs[fieldUsername].Focus()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles field navigation and submission.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keyMap.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keyMap.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, m.keyMap.Submit):
			if m.focus == fieldUsername {
				return m, m.setFocus(fieldEmail)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	username := m.inputs[fieldUsername].Value()
	email := m.inputs[fieldEmail].Value()
	if err := auth.Validate(username, email); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	return m, func() tea.Msg {
		return SubmitMsg{Username: username, Email: email}
	}
}

// setFocus moves the cursor to field i, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

// SetError shows err under the form. nil clears it.
func (m *Model) SetError(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

// Reset clears both fields and the error.
func (m *Model) Reset() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.err = ""
	return m.setFocus(fieldUsername)
}

// SetSize sets the area the form is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centered in the window.
func (m Model) View() string {
	t := m.theme

	rows := []string{
		t.WelcomeTitle.Render(Title),
		t.WelcomeSubtitle.Render(Subtitle),
		"",
		t.LoginLabel.Render("Username"),
		m.inputs[fieldUsername].View(),
		"",
		t.LoginLabel.Render("Email"),
		m.inputs[fieldEmail].View(),
	}
	if m.err != "" {
		rows = append(rows, "")
		for _, line := range strings.Split(m.err, "\n") {
			rows = append(rows, t.LoginError.Render(line))
		}
	}
	rows = append(rows, "",
		t.ShortcutKey.Render("enter")+" "+t.ShortcutDesc.Render("sign in")+"  "+
			t.ShortcutKey.Render("tab")+" "+t.ShortcutDesc.Render("switch field"))

	box := t.LoginBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
