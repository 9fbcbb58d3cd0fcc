// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// SendMsg asks the parent to submit Text to the active session. The panel
// has already cleared its input when this is emitted.
type SendMsg struct {
	Text string
}
