// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"path/filepath"
)

// Options selects and configures a backend.
type Options struct {
	Kind Kind

	// Dir holds the file backend blobs and the sqlite database.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KeyPrefix namespaces every key, e.g. "alice:".
	KeyPrefix string
}

// SQLiteFile is the database file name inside Options.Dir.
const SQLiteFile = "spectre.db"

// Open constructs the backend described by opts.
func Open(opts Options) (Backend, error) {
	var (
		b   Backend
		err error
	)

	switch opts.Kind {
	case KindFile, "":
		b, err = NewFileBackend(opts.Dir)
	case KindMemory:
		b = NewMemoryBackend()
	case KindSQLite:
		if opts.Dir == "" {
			return nil, fmt.Errorf("sqlite backend requires a storage directory")
		}
		b, err = NewSQLiteBackend(filepath.Join(opts.Dir, SQLiteFile))
	case KindRedis:
		b, err = NewRedisBackend(RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Kind)
	}
	if err != nil {
		return nil, err
	}

	if opts.KeyPrefix != "" {
		if err := validateKey(opts.KeyPrefix + UserKey); err != nil {
			b.Close()
			return nil, fmt.Errorf("key prefix: %w", err)
		}
	}
	return WithPrefix(b, opts.KeyPrefix), nil
}
