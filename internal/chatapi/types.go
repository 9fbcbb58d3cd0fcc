// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatapi

// SendRequest is the body of a chat request.
type SendRequest struct {
	Message string `json:"message"`
}

// SendResponse is the body of a successful chat reply. Success is optional;
// an explicit false fails the request even with a 2xx status. Decision is
// informational only.
type SendResponse struct {
	Success  *bool    `json:"success,omitempty"`
	Response *string  `json:"response"`
	Decision []string `json:"decision,omitempty"`
}

// ErrorResponse is the body backends send with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
