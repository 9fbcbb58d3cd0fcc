// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/config"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

// isolateHome points the config directory at a temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

// newTestEnv returns an Env over the in-memory backend with captured output.
func newTestEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = "memory"

	env, err := Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	var out bytes.Buffer
	env.Out = &out
	env.Err = &out
	env.In = strings.NewReader("")
	return env, &out
}

// seed creates sessions titled by their first message, newest first.
func seed(t *testing.T, env *Env, firsts ...string) *session.Store {
	t.Helper()
	store, err := env.OpenSessions()
	require.NoError(t, err)
	for i, text := range firsts {
		if i > 0 {
			_, err := store.Create()
			require.NoError(t, err)
		}
		_, err := store.AppendMessage(store.ActiveID(), model.NewUserMessage(text))
		require.NoError(t, err)
		_, err = store.AppendMessage(store.ActiveID(), model.NewAssistantMessage("Echo: "+text))
		require.NoError(t, err)
	}
	return store
}

// =============================================================================
// LOAD CONFIG
// =============================================================================

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadConfig(Args{Endpoint: "http://localhost:9000/api/chat/send", Backend: "Memory"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/api/chat/send", cfg.Endpoint.URL)
	require.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	isolateHome(t)

	_, err := LoadConfig(Args{Backend: "floppy"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestLoadConfig_BrokenDefaultFileWarns(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".spectre")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[[nope"), 0600))

	var warn bytes.Buffer
	cfg, err := LoadConfig(Args{}, &warn)
	require.NoError(t, err)
	require.Equal(t, config.Default().Endpoint.URL, cfg.Endpoint.URL)
	require.Contains(t, warn.String(), "using defaults")
}

func TestLoadConfig_ExplicitMissingFileFails(t *testing.T) {
	isolateHome(t)

	_, err := LoadConfig(Args{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")}, &bytes.Buffer{})
	require.Error(t, err)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

// =============================================================================
// SESSIONS
// =============================================================================

func TestHandleSessions_Table(t *testing.T) {
	env, out := newTestEnv(t)
	seed(t, env, "first question", "second question")

	require.NoError(t, HandleSessions(env, Args{}))

	text := out.String()
	require.Contains(t, text, "first question")
	require.Contains(t, text, "second question")
	require.Contains(t, text, "Total: 2 session(s)")
	// the newest session is active and listed first
	require.Less(t, strings.Index(text, "second question"), strings.Index(text, "first question"))
	require.Contains(t, text, "* 1")
}

func TestHandleSessions_SearchAndJSON(t *testing.T) {
	env, out := newTestEnv(t)
	seed(t, env, "golang channels", "python decorators", "golang generics")

	require.NoError(t, HandleSessions(env, Args{Raw: []string{"--search", "golang", "--json"}}))

	var rows []sessionSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Contains(t, r.Title, "golang")
		require.Equal(t, 2, r.Messages)
	}
	// indexes refer to the unfiltered list
	require.Equal(t, 1, rows[0].Index)
	require.Equal(t, 3, rows[1].Index)
}

func TestHandleSessions_NoMatch(t *testing.T) {
	env, out := newTestEnv(t)
	seed(t, env, "hello")

	require.NoError(t, HandleSessions(env, Args{Raw: []string{"--search", "zzz"}}))
	require.Contains(t, out.String(), `No sessions match "zzz"`)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestHandleExport_ByIndexAndPrefix(t *testing.T) {
	env, out := newTestEnv(t)
	store := seed(t, env, "alpha topic", "beta topic")

	require.NoError(t, HandleExport(env, Args{Raw: []string{"2"}}))
	require.Contains(t, out.String(), "# alpha topic")
	require.Contains(t, out.String(), "Echo: alpha topic")

	out.Reset()
	active, _ := store.Active()
	require.NoError(t, HandleExport(env, Args{Raw: []string{active.ID[:9]}}))
	require.Contains(t, out.String(), "# beta topic")
}

func TestHandleExport_ToFile(t *testing.T) {
	env, _ := newTestEnv(t)
	seed(t, env, "write me")

	path := filepath.Join(t.TempDir(), "out", "chat.md")
	require.NoError(t, HandleExport(env, Args{Raw: []string{"1", "--out", path}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "# write me"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 && os.PathSeparator == '/' {
		t.Errorf("export permissions = %v, want 0600", info.Mode().Perm())
	}
}

func TestHandleExport_Formats(t *testing.T) {
	env, out := newTestEnv(t)
	seed(t, env, "format me")

	require.NoError(t, HandleExport(env, Args{Raw: []string{"1", "--format", "json"}}))
	require.True(t, json.Valid(out.Bytes()), "json export: %s", out.String())

	dir := t.TempDir()
	path := filepath.Join(dir, "chat.html")
	require.NoError(t, HandleExport(env, Args{Raw: []string{"1", "--out", path}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<title>format me</title>")

	out.Reset()
	require.NoError(t, HandleExport(env, Args{Raw: []string{"1", "--meta"}}))
	require.True(t, strings.HasPrefix(out.String(), "---\ntitle: format me\n"))

	err = HandleExport(env, Args{Raw: []string{"1", "--format", "pdf"}})
	require.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleExport_Errors(t *testing.T) {
	env, _ := newTestEnv(t)
	seed(t, env, "only one")

	err := HandleExport(env, Args{})
	require.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleExport(env, Args{Raw: []string{"5"}})
	require.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = HandleExport(env, Args{Raw: []string{"not-an-id"}})
	require.Equal(t, ExitNotFoundError, GetExitCode(err))
}

// =============================================================================
// LOGOUT / CLEAR
// =============================================================================

func TestHandleLogout_RemovesUserAndHistory(t *testing.T) {
	env, out := newTestEnv(t)
	_, err := env.Gate.Login("ada", "ada@example.com")
	require.NoError(t, err)
	seed(t, env, "secret plans")

	require.NoError(t, HandleLogout(env, Args{}))
	require.Contains(t, out.String(), "Logged out ada")

	_, found, err := env.Users.Load()
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = env.History.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestHandleSessions_AfterLogoutWritesNothing(t *testing.T) {
	env, out := newTestEnv(t)
	_, err := env.Gate.Login("ada", "ada@example.com")
	require.NoError(t, err)
	seed(t, env, "secret plans")
	require.NoError(t, HandleLogout(env, Args{}))

	require.NoError(t, HandleSessions(env, Args{}))
	require.Contains(t, out.String(), "No chat history yet.")
	require.Error(t, HandleExport(env, Args{Raw: []string{"1"}}))

	_, found, err := env.History.Load()
	require.NoError(t, err)
	require.False(t, found, "reading must not recreate the history")
	_, found, err = env.Users.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestHandleClear_Confirmed(t *testing.T) {
	env, out := newTestEnv(t)
	seed(t, env, "one", "two", "three")

	require.NoError(t, HandleClear(env, Args{Raw: []string{"--confirm"}}))
	require.Contains(t, out.String(), "cleared")

	saved, found, err := env.History.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, saved, 1)
	require.True(t, saved[0].IsEmpty())
	require.Equal(t, model.DefaultTitle, saved[0].Title)
}

func TestHandleClear_Declined(t *testing.T) {
	withTTY(t, true)
	env, out := newTestEnv(t)
	seed(t, env, "one", "two")
	env.In = strings.NewReader("n\n")

	require.NoError(t, HandleClear(env, Args{}))
	require.Contains(t, out.String(), "Cancelled.")

	saved, _, err := env.History.Load()
	require.NoError(t, err)
	require.Len(t, saved, 2)
}

func TestHandleClear_NoTerminal(t *testing.T) {
	withTTY(t, false)
	env, _ := newTestEnv(t)
	seed(t, env, "one")

	require.Error(t, HandleClear(env, Args{}))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig_SetGetPath(t *testing.T) {
	home := isolateHome(t)
	var out bytes.Buffer

	require.NoError(t, HandleConfig(Args{Raw: []string{"path"}}, config.Default(), &out))
	require.Equal(t, filepath.Join(home, ".spectre", "config.toml"), strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"set", "ui.theme", "light"}}, config.Default(), &out))
	require.Contains(t, out.String(), "ui.theme = light")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "light", cfg.UI.Theme)

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"get", "ui.theme"}}, cfg, &out))
	require.Equal(t, "light", strings.TrimSpace(out.String()))
}

func TestHandleConfig_SetKeepsEnvOutOfFile(t *testing.T) {
	isolateHome(t)
	t.Setenv("SPECTRE_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "spectre.json")
	args := Args{ConfigPath: path, Raw: []string{"set", "storage.backend", "sqlite"}}
	require.NoError(t, HandleConfig(args, config.Default(), &bytes.Buffer{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"sqlite"`)
	require.NotContains(t, string(data), `"debug"`)
}

func TestHandleConfig_Errors(t *testing.T) {
	isolateHome(t)
	var out bytes.Buffer

	err := HandleConfig(Args{Raw: []string{"set", "ui.theme", "neon"}}, config.Default(), &out)
	require.Equal(t, ExitConfigError, GetExitCode(err))

	err = HandleConfig(Args{Raw: []string{"set", "ui.nope", "x"}}, config.Default(), &out)
	require.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(Args{Raw: []string{"get"}}, config.Default(), &out)
	require.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(Args{Raw: []string{"reset"}}, config.Default(), &out)
	require.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_ShowRedactsPassword(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.RedisPassword = "hunter2"
	var out bytes.Buffer

	require.NoError(t, HandleConfig(Args{}, cfg, &out))
	require.NotContains(t, out.String(), "hunter2")

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"get", "storage.redis_password"}}, cfg, &out))
	require.Equal(t, "[REDACTED]", strings.TrimSpace(out.String()))
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestRun_Dispatch(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, Run(CmdVersion, Args{}, env))
	require.Contains(t, out.String(), "spectre version")

	err := Run(CmdUnknown, Args{Unknown: "bogus"}, env)
	require.Equal(t, ExitUsageError, GetExitCode(err))
	require.Contains(t, err.Error(), `"bogus"`)

	require.Error(t, Run(CmdTUI, Args{}, env))
}
