// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat panel of the spectre TUI.

The panel shows the header with the assistant status, the active session's
transcript in a scrollable viewport, the thinking spinner and the message
input. It does not talk to the session store or the messenger: a submitted
line leaves the panel as a SendMsg, and the parent pushes the updated session
and status back with SetSession and SetStatus.

# Files

  - model.go: Model, New, Update and the setters used by the parent
  - view.go: layout of header, transcript, spinner and input
  - keys.go: KeyMap for send and scrolling
  - messages.go: SendMsg

While a reply is pending the input is blurred and Enter does nothing.
*/
package chat
