// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/messenger"
	"github.com/jeranaias/spectre-tui/internal/ui/chat"
	"github.com/jeranaias/spectre-tui/internal/ui/components"
	"github.com/jeranaias/spectre-tui/internal/ui/login"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update routes a message and refreshes the notice shown above the input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.chat.SetNotice(m.toast.View())
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case login.SubmitMsg:
		return m.handleLogin(msg)

	case chat.SendMsg:
		return m.send(msg.Text)

	case ReplyMsg:
		return m.handleReply(msg)

	case components.ConfirmResultMsg:
		return m.handleConfirm(msg)

	case components.ToastExpiredMsg:
		m.toast.Update(msg)
		return m, nil
	}

	return m.forward(msg)
}

// forward passes a message to the visible screen.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.screen == ScreenLogin {
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	if m.screen == ScreenLogin {
		return m.forward(msg)
	}

	if cmd, handled := m.confirm.Update(msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSession()
	case key.Matches(msg, m.keys.Clear):
		m.confirm.ShowClearHistory()
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		m.confirm.Show(components.ConfirmLogout, "Logout",
			"Sign out and remove all chat history from this device?",
			"Logout")
		return m, nil
	case key.Matches(msg, m.keys.Mic):
		return m, m.chat.SetStatus(m.messenger.ToggleListening())
	case key.Matches(msg, m.keys.Speaker):
		return m, m.chat.SetStatus(m.messenger.ToggleSpeaking())
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	if key.Matches(msg, m.keys.History) && m.sidebarWidth() > 0 {
		return m, m.setFocus(FocusSidebar)
	}
	return m.forward(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
	case key.Matches(msg, m.keys.Select):
		return m.selectSession()
	case key.Matches(msg, m.keys.Back):
		return m, m.setFocus(FocusInput)
	}
	return m, nil
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

func (m Model) newChat() (Model, tea.Cmd) {
	if _, err := m.store.Create(); err != nil {
		return m, m.toast.Error(err)
	}
	m.syncSessions()
	return m, m.setFocus(FocusInput)
}

func (m Model) selectSession() (Model, tea.Cmd) {
	sel, ok := m.sidebar.Selected()
	if !ok {
		return m, nil
	}
	if err := m.store.Select(sel.ID); err != nil {
		m.syncSessions()
		return m, m.toast.Error(err)
	}
	m.syncSessions()
	return m, m.setFocus(FocusInput)
}

// deleteSession removes the highlighted session when the sidebar has focus,
// otherwise the active one. There is no confirmation.
func (m Model) deleteSession() (Model, tea.Cmd) {
	id := m.store.ActiveID()
	if m.focus == FocusSidebar {
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		id = sel.ID
	}
	if id == "" {
		return m, nil
	}
	if err := m.store.Delete(id); err != nil {
		return m, m.toast.Error(err)
	}
	m.syncSessions()
	return m, m.toast.Show(components.ToastInfo, "Chat deleted")
}

func (m Model) handleConfirm(msg components.ConfirmResultMsg) (Model, tea.Cmd) {
	if !msg.Confirmed {
		return m, nil
	}
	switch msg.Action {
	case components.ConfirmClearHistory:
		if m.store == nil {
			return m, nil
		}
		if err := m.store.Clear(); err != nil {
			return m, m.toast.Error(err)
		}
		m.syncSessions()
		return m, tea.Batch(
			m.setFocus(FocusInput),
			m.toast.Show(components.ToastSuccess, "Chat history cleared"),
		)

	case components.ConfirmLogout:
		err := m.deps.Gate.Logout()
		cmd := m.leaveChat()
		if err != nil {
			m.login.SetError(err)
		}
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// LOGIN
// =============================================================================

func (m Model) handleLogin(msg login.SubmitMsg) (Model, tea.Cmd) {
	user, err := m.deps.Gate.Login(msg.Username, msg.Email)
	if err != nil {
		m.login.SetError(err)
		return m, nil
	}
	if err := m.enterChat(user); err != nil {
		m.login.SetError(err)
		return m, nil
	}
	m.layout()
	return m, m.chat.Init()
}

// =============================================================================
// SEND FLOW
// =============================================================================

// send records the user message and starts delivery off the event loop.
func (m Model) send(text string) (Model, tea.Cmd) {
	if m.messenger == nil {
		return m, nil
	}

	p, err := m.messenger.Submit(text)
	switch {
	case errors.Is(err, messenger.ErrEmptyMessage), errors.Is(err, messenger.ErrBusy):
		return m, nil
	case err != nil:
		m.syncSessions()
		return m, m.toast.Error(err)
	}

	m.syncSessions()
	statusCmd := m.chat.SetStatus(m.messenger.Status())

	ms, ctx := m.messenger, m.ctx
	deliver := func() tea.Msg {
		return ReplyMsg{Result: ms.Deliver(ctx, p), from: ms}
	}
	return m, tea.Batch(statusCmd, deliver)
}

// handleReply appends the reply to the session it was sent from.
func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	if msg.from == nil || msg.from != m.messenger {
		m.logger.Debug("stale reply discarded")
		return m, nil
	}

	_, err := m.messenger.Settle(msg.Result)
	m.syncSessions()
	statusCmd := m.chat.SetStatus(m.messenger.Status())

	switch {
	case errors.Is(err, messenger.ErrSessionGone):
		return m, tea.Batch(statusCmd, m.toast.Show(components.ToastInfo, "Reply discarded, the chat was deleted"))
	case err != nil:
		m.logger.Error("reply not saved", zap.Error(err))
		return m, tea.Batch(statusCmd, m.toast.Error(err))
	}
	return m, statusCmd
}
