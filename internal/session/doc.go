// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the list of chat sessions and the active-session
// pointer.
//
// Every mutating operation writes the whole list through a Persister before
// it is committed in memory, so the in-memory list and the persisted list
// never diverge. A failed write leaves the store unchanged and returns the
// error.
//
// # Key Types
//
//   - Store: Session list, active pointer and lifecycle operations
//   - Persister: Load/Save of the full list (storage.SessionRepository)
//   - MemoryPersister: In-memory Persister for tests and ephemeral runs
//   - Patch: Partial update of a session's title and/or messages
//
// # Usage
//
//	store, err := session.Open(storage.NewSessionRepository(backend),
//		session.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	s, _ := store.Create()
//	store.AppendMessage(s.ID, model.NewUserMessage("Hello!"))
//
// # Lifecycle Guarantees
//
// There is zero or one active session. Clear, and Delete of the last
// session, always leave exactly one fresh session behind.
package session
