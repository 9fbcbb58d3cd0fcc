// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// User is the identity captured by the login gate. It is stored as-is and
// never checked against a backend.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUser builds a User from raw form input, trimming surrounding whitespace.
func NewUser(username, email string) User {
	return User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
	}
}

// IsComplete reports whether both fields are non-blank.
func (u User) IsComplete() bool {
	return strings.TrimSpace(u.Username) != "" && strings.TrimSpace(u.Email) != ""
}

// Initial returns the upper-cased first letter of the username for avatars.
func (u User) Initial() string {
	for _, r := range strings.TrimSpace(u.Username) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
