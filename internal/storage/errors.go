// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// =============================================================================
// ERRORS
// =============================================================================

// Use errors.Is to check for these errors.
var (
	// ErrKeyNotFound is returned by Get when nothing is stored under a key.
	ErrKeyNotFound = &StorageError{Message: "key not found"}

	// ErrInvalidKey is returned for keys that are empty or contain
	// characters outside [A-Za-z0-9._:-].
	ErrInvalidKey = &StorageError{Message: "invalid key"}

	// ErrUnknownBackend is returned by ParseKind and Open.
	ErrUnknownBackend = &StorageError{Message: "unknown storage backend"}

	// ErrCorrupt is returned when a stored blob cannot be decoded.
	ErrCorrupt = &StorageError{Message: "stored data is malformed"}
)

// StorageError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StorageError struct {
	Message string
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing storage errors.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
