// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "spectre.log")

	logger, err := New(Options{Level: "debug", Path: path})
	require.NoError(t, err)

	logger.Info("chat history saved", zap.Int("sessions", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	require.Equal(t, "chat history saved", entry["msg"])
	require.Equal(t, float64(3), entry["sessions"])
	require.Equal(t, "spectre", entry["logger"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectre.log")

	logger, err := New(Options{Level: "warn", Path: path})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty", Path: filepath.Join(t.TempDir(), "x.log")})
	require.Error(t, err)
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWithSink_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithSink(zapcore.AddSync(&buf), zapcore.DebugLevel, true)
	logger.Debug("request", zap.String("path", "/api/chat/send"))

	out := buf.String()
	require.True(t, strings.Contains(out, "request"))
	require.True(t, strings.Contains(out, "/api/chat/send"))
}
