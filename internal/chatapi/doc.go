// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatapi provides the HTTP client for the chat endpoint.
//
// The endpoint accepts POST {"message": "<text>"} and answers
// {"response": "<reply>"}. The client makes exactly one request per Send:
// no retry, no backoff, no streaming.
//
// # Key Types
//
//   - Client: Thread-safe endpoint client
//   - ClientConfig: Endpoint URL and request timeout
//   - ClientError: Classified failure (timeout, connection, status, response)
//
// # Usage
//
//	client := chatapi.NewClientWithConfig(&chatapi.ClientConfig{
//		Endpoint: "http://127.0.0.1:5000/api/chat/send",
//		Timeout:  60 * time.Second,
//	})
//	reply, err := client.Send(ctx, "Hello!")
//
// Callers that only show an apology on failure can ignore the error type;
// it exists for logging.
package chatapi
