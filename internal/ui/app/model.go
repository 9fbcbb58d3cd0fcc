// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the spectre TUI.
//
// It owns the session store and the messenger for the signed-in user and
// routes input between the login form, the history sidebar, the chat panel
// and the confirmation dialog.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/auth"
	"github.com/jeranaias/spectre-tui/internal/config"
	"github.com/jeranaias/spectre-tui/internal/messenger"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
	"github.com/jeranaias/spectre-tui/internal/ui/chat"
	"github.com/jeranaias/spectre-tui/internal/ui/components"
	"github.com/jeranaias/spectre-tui/internal/ui/login"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// Screen is the top-level view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChat
)

// Focus is the pane receiving keys on the chat screen.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
)

// footerHeight is the key help row.
const footerHeight = 1

// Deps are the services the interface runs on.
type Deps struct {
	Gate         *auth.Gate
	OpenStore    func() (*session.Store, error)
	NewMessenger func(*session.Store) *messenger.Messenger
	Logger       *zap.Logger
	UI           config.UIConfig
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model.
type Model struct {
	deps   Deps
	logger *zap.Logger
	theme  *styles.Theme
	keys   KeyMap

	screen Screen
	focus  Focus
	width  int
	height int

	user      model.User
	store     *session.Store
	messenger *messenger.Messenger

	// ctx is cancelled on logout and quit so a pending request stops early.
	ctx    context.Context
	cancel context.CancelFunc

	login   login.Model
	chat    chat.Model
	sidebar *components.Sidebar
	confirm *components.ConfirmDialog
	toast   components.Toast
	help    help.Model
}

// New builds the root model. A signed-in user goes straight to the chat
// screen; failing to load that user's history aborts startup.
func New(deps Deps) (Model, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	theme := styles.NewTheme(deps.UI.Theme)

	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.ShortSeparator = theme.ShortcutDesc

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		deps:    deps,
		logger:  deps.Logger,
		theme:   theme,
		keys:    DefaultKeyMap(),
		width:   80,
		height:  24,
		ctx:     ctx,
		cancel:  cancel,
		login:   login.New(theme),
		chat:    chat.New(theme, chat.Options{ShowTimestamps: deps.UI.ShowTimestamps, RenderMarkdown: deps.UI.RenderMarkdown}),
		sidebar: components.NewSidebar(theme),
		confirm: components.NewConfirmDialog(theme),
		help:    h,
	}

	user, ok, err := deps.Gate.Current()
	if err != nil {
		cancel()
		return Model{}, err
	}
	if ok {
		if err := m.enterChat(user); err != nil {
			cancel()
			return Model{}, err
		}
	}
	m.layout()
	return m, nil
}

// Init starts the cursor blink of the visible screen.
func (m Model) Init() tea.Cmd {
	if m.screen == ScreenLogin {
		return m.login.Init()
	}
	return m.chat.Init()
}

// Screen returns the visible screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Store returns the session store of the signed-in user, or nil.
func (m Model) Store() *session.Store {
	return m.store
}

// =============================================================================
// SCREEN TRANSITIONS
// =============================================================================

// enterChat opens the history of user and shows the chat screen.
func (m *Model) enterChat(user model.User) error {
	store, err := m.deps.OpenStore()
	if err != nil {
		m.logger.Error("failed to load chat history", zap.Error(err))
		return fmt.Errorf("failed to load chat history: %w", err)
	}

	m.user = user
	m.store = store
	m.messenger = m.deps.NewMessenger(store)
	m.screen = ScreenChat
	m.focus = FocusInput

	m.sidebar.SetUser(user)
	m.sidebar.SetFocused(false)
	m.chat.SetStatus(m.messenger.Status())
	m.syncSessions()
	m.logger.Info("chat screen opened",
		zap.String("username", user.Username),
		zap.Int("sessions", store.Len()))
	return nil
}

// leaveChat drops the store and messenger and shows an empty login form.
func (m *Model) leaveChat() tea.Cmd {
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.store = nil
	m.messenger = nil
	m.user = model.User{}
	m.screen = ScreenLogin
	m.focus = FocusInput
	m.confirm.Hide()
	m.toast.Dismiss()

	m.chat.SetStatus(model.NewAssistantStatus())
	m.chat.SetSession(model.ChatSession{}, false)
	m.chat.SetInputValue("")
	m.sidebar.SetSessions(nil, "")
	return m.login.Reset()
}

// syncSessions pushes the store contents to the sidebar and chat panel.
func (m *Model) syncSessions() {
	if m.store == nil {
		return
	}
	m.sidebar.SetSessions(m.store.Sessions(), m.store.ActiveID())
	active, ok := m.store.Active()
	m.chat.SetSession(active, ok)
}

// =============================================================================
// LAYOUT
// =============================================================================

// sidebarWidth is zero when the terminal is too narrow for the sidebar.
func (m Model) sidebarWidth() int {
	if !m.theme.ShowSidebar() {
		return 0
	}
	w := m.deps.UI.SidebarWidth
	if w <= 0 {
		w = config.Default().UI.SidebarWidth
	}
	if w > m.width/2 {
		w = m.width / 2
	}
	return w
}

func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.login.SetSize(m.width, m.height)
	m.confirm.SetSize(m.width, m.height)
	m.help.Width = m.width

	body := m.height - footerHeight
	sw := m.sidebarWidth()
	m.sidebar.SetSize(sw, body)
	m.chat.SetSize(m.width-sw, body)

	if sw == 0 && m.focus == FocusSidebar {
		m.setFocus(FocusInput)
	}
}

// setFocus moves keyboard focus between the sidebar and the input.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	if f == FocusSidebar {
		m.chat.Blur()
		if m.store != nil {
			m.sidebar.SetSessions(m.store.Sessions(), m.store.ActiveID())
		}
		return nil
	}
	return m.chat.Focus()
}
