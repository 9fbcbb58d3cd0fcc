// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/spectre-tui/internal/messenger"
)

// ReplyMsg carries the outcome of a delivered message back to the event
// loop. A reply from a messenger that has since been replaced (after a
// logout) is discarded.
type ReplyMsg struct {
	Result messenger.Result
	from   *messenger.Messenger
}
