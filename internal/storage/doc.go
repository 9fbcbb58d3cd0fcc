// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides key-value persistence for spectre.
//
// State lives under two keys, each holding one JSON blob: "spectreUser" for
// the logged-in user and "chatHistory" for the full session list. Every
// write replaces the whole blob; there is no schema versioning.
//
// # Key Types
//
//   - Backend: Get/Set/Remove over byte values
//   - FileBackend: one JSON file per key, written atomically (default)
//   - MemoryBackend: process-local map, used by tests and --backend=memory
//   - SQLiteBackend: single kv table via modernc.org/sqlite
//   - RedisBackend: string keys on a Redis server via go-redis
//   - SessionRepository, UserRepository: typed JSON access to the two keys
//
// # Usage
//
//	backend, err := storage.Open(storage.Options{Kind: storage.KindFile, Dir: dir})
//	if err != nil {
//		return err
//	}
//	defer backend.Close()
//
//	history := storage.NewSessionRepository(backend)
//	sessions, found, err := history.Load()
//
// # Storage Location
//
// The file backend stores blobs in ~/.spectre/data/ as <key>.json.
package storage
