// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, chat sessions and messages.
//
// This package defines the core domain types shared by the session store,
// the send flow and the UI. The types serialize to the same JSON shape that
// the persistence backend stores under the "spectreUser" and "chatHistory"
// keys.
//
// # Key Types
//
//   - User: Opaque identity captured by the login gate
//   - ChatMessage: Single message with role, content and timestamp
//   - ChatSession: Conversation thread with an append-only message list
//   - AssistantStatus: Ephemeral indicator state (thinking, listening, speaking)
//
// # Usage
//
// Create a session and append the first user message:
//
//	s := model.NewChatSession()
//	s.Append(model.NewUserMessage("Hello!"))
//	fmt.Println(s.Title) // "Hello!"
//
// Drive the status indicator:
//
//	var st model.AssistantStatus
//	st = st.BeginThinking()
//	fmt.Println(st.Label()) // "Thinking..."
package model
