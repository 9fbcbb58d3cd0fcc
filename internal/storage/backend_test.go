// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// BACKEND CONFORMANCE
// =============================================================================

// backendFactories builds a fresh instance of every backend implementation.
var backendFactories = map[string]func(t *testing.T) Backend{
	"file": func(t *testing.T) Backend {
		b, err := NewFileBackend(t.TempDir())
		require.NoError(t, err)
		return b
	},
	"memory": func(t *testing.T) Backend {
		return NewMemoryBackend()
	},
	"sqlite": func(t *testing.T) Backend {
		b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "kv.db"))
		require.NoError(t, err)
		return b
	},
	"redis": func(t *testing.T) Backend {
		mr := miniredis.RunT(t)
		b, err := NewRedisBackend(RedisOptions{Addr: mr.Addr()})
		require.NoError(t, err)
		return b
	},
}

func TestBackends_Conformance(t *testing.T) {
	for name, factory := range backendFactories {
		t.Run(name, func(t *testing.T) {
			b := factory(t)
			defer b.Close()
			ctx := context.Background()

			_, err := b.Get(ctx, HistoryKey)
			require.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, b.Set(ctx, HistoryKey, []byte(`[]`)))
			got, err := b.Get(ctx, HistoryKey)
			require.NoError(t, err)
			require.Equal(t, "[]", string(got))

			require.NoError(t, b.Set(ctx, HistoryKey, []byte(`[{"id":"x"}]`)))
			got, err = b.Get(ctx, HistoryKey)
			require.NoError(t, err)
			require.Equal(t, `[{"id":"x"}]`, string(got))

			require.NoError(t, b.Remove(ctx, HistoryKey))
			_, err = b.Get(ctx, HistoryKey)
			require.ErrorIs(t, err, ErrKeyNotFound)

			// Removing an absent key is fine.
			require.NoError(t, b.Remove(ctx, HistoryKey))
		})
	}
}

func TestBackends_KeysAreIndependent(t *testing.T) {
	for name, factory := range backendFactories {
		t.Run(name, func(t *testing.T) {
			b := factory(t)
			defer b.Close()
			ctx := context.Background()

			require.NoError(t, b.Set(ctx, UserKey, []byte(`{"username":"ada"}`)))
			require.NoError(t, b.Set(ctx, HistoryKey, []byte(`[]`)))
			require.NoError(t, b.Remove(ctx, HistoryKey))

			got, err := b.Get(ctx, UserKey)
			require.NoError(t, err)
			require.Equal(t, `{"username":"ada"}`, string(got))
		})
	}
}

func TestBackends_RejectInvalidKeys(t *testing.T) {
	for name, factory := range backendFactories {
		t.Run(name, func(t *testing.T) {
			b := factory(t)
			defer b.Close()
			ctx := context.Background()

			for _, key := range []string{"", "../escape", "a/b", ".hidden", "with space"} {
				err := b.Set(ctx, key, []byte("x"))
				if !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

// =============================================================================
// FILE BACKEND
// =============================================================================

func TestFileBackend_Layout(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if b.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", b.BaseDir, dir)
	}

	if err := b.Set(context.Background(), UserKey, []byte(`{}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "spectreUser.json")); err != nil {
		t.Errorf("expected spectreUser.json: %v", err)
	}
}

func TestFileBackend_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileBackend(dir); err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestFileBackend_CanceledContext(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Set(ctx, UserKey, []byte("{}")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set with canceled ctx = %v, want context.Canceled", err)
	}
}

// =============================================================================
// MEMORY BACKEND
// =============================================================================

func TestMemoryBackend_CopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	v := []byte("abc")
	if err := b.Set(ctx, "k", v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v[0] = 'z'

	got, _ := b.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
	got[1] = 'z'
	again, _ := b.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased storage: %q", again)
	}
}

// =============================================================================
// SQLITE BACKEND
// =============================================================================

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, HistoryKey, []byte(`[1]`)))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.Equal(t, "[1]", string(got))
	require.Equal(t, path, b.Path())
}

// =============================================================================
// REDIS BACKEND
// =============================================================================

func TestRedisBackend_StoresPlainStrings(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBackend(RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), UserKey, []byte(`{"username":"ada"}`)))

	raw, err := mr.Get(UserKey)
	require.NoError(t, err)
	require.Equal(t, `{"username":"ada"}`, raw)
	require.Equal(t, 0, int(mr.TTL(UserKey)))
}

func TestRedisBackend_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisBackend(RedisOptions{Addr: addr}); err == nil {
		t.Error("expected error connecting to a closed server")
	}
}

func TestNewRedisBackend_RequiresAddr(t *testing.T) {
	if _, err := NewRedisBackend(RedisOptions{}); err == nil {
		t.Error("expected error for empty address")
	}
}

// =============================================================================
// OPEN / PREFIX
// =============================================================================

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"file", KindFile, false},
		{" SQLite ", KindSQLite, false},
		{"redis", KindRedis, false},
		{"memory", KindMemory, false},
		{"mongo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("ParseKind(%q) error should wrap ErrUnknownBackend", tt.in)
		}
	}
}

func TestOpen_Kinds(t *testing.T) {
	dir := t.TempDir()

	for _, kind := range []Kind{KindFile, KindMemory, KindSQLite} {
		b, err := Open(Options{Kind: kind, Dir: dir})
		require.NoError(t, err, "kind %s", kind)
		require.NoError(t, b.Set(context.Background(), UserKey, []byte("{}")))
		require.NoError(t, b.Close())
	}

	mr := miniredis.RunT(t)
	b, err := Open(Options{Kind: KindRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = Open(Options{Kind: "mongo"})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpen_SQLiteRequiresDir(t *testing.T) {
	if _, err := Open(Options{Kind: KindSQLite}); err == nil {
		t.Error("expected error without dir")
	}
}

func TestOpen_InvalidPrefix(t *testing.T) {
	_, err := Open(Options{Kind: KindMemory, KeyPrefix: "bad/prefix"})
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestWithPrefix(t *testing.T) {
	mem := NewMemoryBackend()
	b := WithPrefix(mem, "alice:")
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, HistoryKey, []byte("[]")))
	require.Equal(t, []string{"alice:chatHistory"}, mem.Keys())

	got, err := b.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))

	require.NoError(t, b.Remove(ctx, HistoryKey))
	require.Empty(t, mem.Keys())

	if WithPrefix(mem, "") != Backend(mem) {
		t.Error("empty prefix should return the backend unchanged")
	}
}
