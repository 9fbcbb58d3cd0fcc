// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chat sessions for use outside the client.
//
// # Supported Formats
//
//   - Markdown: the transcript with one section per message (default)
//   - JSON: the session in its stored shape
//   - HTML: a standalone page with the chat bubbles styled in CSS
//
// # Usage
//
//	exporter, err := export.ForFormat("html", export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	err = export.ToFile(session, exporter, "chat.html")
package export
