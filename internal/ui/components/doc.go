// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the spectre TUI.

# Display Components

Header (header.go) - Assistant name, status dot and label, mic and speaker toggles.
Sidebar (sidebar.go) - Signed-in user and the session list grouped by day.
MessageBubble (message.go) - One chat message, markdown rendered for replies.
WelcomeView (welcome.go) - Empty state when no session is active.

# Feedback

Spinner (spinner.go) - Animated indicator while a reply is pending.
Toast (toast.go) - Timed notice above the input.
ConfirmDialog (confirm.go) - Modal yes/no dialog, emits ConfirmResultMsg.

Components are plain structs owned by the parent model; they never touch
the session store.
*/
package components
