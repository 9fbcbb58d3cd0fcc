// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the spectre-tui application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - PrefixRunes: first N characters plus "..." when longer (session titles)
//   - TruncateWidth, StringWidth: display-width aware helpers for the TUI
//   - SingleLine: whitespace collapsing for previews
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - ExpandHome: "~" expansion for configured paths
//
// # Usage
//
//	title := util.PrefixRunes(firstMessage, 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
