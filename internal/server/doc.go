// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development stand-in for the chat backend.
//
// It answers the same routes the client talks to so the TUI can be driven
// end to end without the real assistant pipeline.
//
// # Endpoints
//
//   - POST /api/auth/login   - Echo the user back (400 on blank fields)
//   - POST /api/chat/send    - Reply "Echo: <message>" (400 on missing message)
//   - GET  /api/chat/history - Messages seen since start or last clear
//   - POST /api/chat/clear   - Forget the transcript
//   - GET  /api/status       - Assistant status label and flags
//   - GET  /healthz          - Liveness
//
// # Middleware
//
//   - Request IDs (chi), zap request logging, panic recovery
//   - CORS allowlist for local web front ends
//   - Per-IP token bucket rate limiting (golang.org/x/time/rate)
//
// # Usage
//
//	srv := server.New("127.0.0.1:5000", server.WithLogger(logger))
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server
