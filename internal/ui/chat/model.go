// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/ui/components"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// Input limits
const (
	InputCharLimit   = 4096
	InputPlaceholder = "Type your message..."
)

// Options are the display settings taken from the [ui] config section.
type Options struct {
	ShowTimestamps bool
	RenderMarkdown bool
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the chat panel.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	width  int
	height int

	session    model.ChatSession
	hasSession bool
	status     model.AssistantStatus
	notice     string

	showTimestamps bool
	markdown       *components.MarkdownRenderer

	header   *components.Header
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
}

// New creates a chat panel with no active session.
func New(theme *styles.Theme, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = InputCharLimit
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	var md *components.MarkdownRenderer
	if opts.RenderMarkdown {
		md = components.NewMarkdownRenderer(theme.GlamourStyle())
	}

	m := Model{
		theme:          theme,
		keyMap:         DefaultKeyMap(),
		width:          80,
		height:         24,
		status:         model.NewAssistantStatus(),
		showTimestamps: opts.ShowTimestamps,
		markdown:       md,
		header:         components.NewHeader(theme),
		viewport:       viewport.New(80, 20),
		input:          ti,
		spinner:        components.NewSpinner(theme),
	}
	m.layout()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys and animation ticks for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	if m.status.IsThinking {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit emits SendMsg for a non-blank line. Blank input, a pending reply or
// a missing session leave the input untouched.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	if util.IsBlank(text) || m.status.IsThinking || !m.hasSession {
		return m, nil
	}
	m.input.Reset()
	return m, func() tea.Msg {
		return SendMsg{Text: text}
	}
}

// =============================================================================
// SETTERS
// =============================================================================

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

// SetSession shows s, or the welcome view when ok is false. The transcript
// scrolls to the newest message.
func (m *Model) SetSession(s model.ChatSession, ok bool) {
	m.session = s
	m.hasSession = ok
	m.refresh()
	m.viewport.GotoBottom()
}

// Session returns the displayed session.
func (m Model) Session() (model.ChatSession, bool) {
	return m.session, m.hasSession
}

// SetStatus updates the header and locks the input while thinking.
func (m *Model) SetStatus(status model.AssistantStatus) tea.Cmd {
	wasThinking := m.status.IsThinking
	m.status = status
	m.header.SetStatus(status)

	var cmd tea.Cmd
	switch {
	case status.IsThinking && !wasThinking:
		m.input.Blur()
		cmd = m.spinner.Start()
	case !status.IsThinking && wasThinking:
		m.spinner.Stop()
		cmd = m.input.Focus()
	}
	m.layout()
	return cmd
}

// Status returns the status shown in the header.
func (m Model) Status() model.AssistantStatus {
	return m.status
}

// SetNotice sets the rendered notice shown above the input when the spinner
// is not running. An empty string clears it.
func (m *Model) SetNotice(notice string) {
	if notice == m.notice {
		return
	}
	m.notice = notice
	m.layout()
}

// Focus gives the input the cursor unless a reply is pending.
func (m *Model) Focus() tea.Cmd {
	if m.status.IsThinking {
		return nil
	}
	return m.input.Focus()
}

// Blur removes the cursor from the input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has the cursor.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the input text.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// KeyMap returns the panel bindings.
func (m Model) KeyMap() KeyMap {
	return m.keyMap
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes the header, input and viewport to the panel and re-renders
// the transcript at the new width.
func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.input.Width = maxInt(m.width-8, 10)

	vh := m.height - m.chromeHeight()
	m.viewport.Width = m.width
	m.viewport.Height = maxInt(vh, 1)
	m.refresh()
}

func (m *Model) refresh() {
	if !m.hasSession {
		m.viewport.SetContent("")
		return
	}
	atBottom := m.viewport.AtBottom()
	content := components.RenderMessages(m.session.Messages, m.theme, maxInt(m.width-2, 24), m.showTimestamps, m.markdown)
	m.viewport.SetContent(strings.TrimRight(content, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
