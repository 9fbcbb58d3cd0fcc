// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/model"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func zapToBuffer(buf *bytes.Buffer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_Echo(t *testing.T) {
	s := New("")
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat/send", `{"message":"Hello!"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp chatapi.SendResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Success)
	require.True(t, *resp.Success)
	require.NotNil(t, resp.Response)
	require.Equal(t, "Echo: Hello!", *resp.Response)
	require.NotEmpty(t, resp.Decision)

	hist := s.History()
	require.Len(t, hist, 2)
	require.Equal(t, model.RoleUser, hist[0].Role)
	require.Equal(t, model.RoleAssistant, hist[1].Role)
}

func TestSend_MissingMessage(t *testing.T) {
	s := New("")
	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`} {
		rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat/send", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "Message is required", resp.Error)
	}
	require.Empty(t, s.History())
}

func TestSend_BadBodies(t *testing.T) {
	s := New("")
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "request body is required"},
		{"not json", "hello", "invalid JSON body"},
		{"too large", `{"message":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`, "request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat/send", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestSend_CustomResponder(t *testing.T) {
	s := New("", WithResponder(func(msg string) (string, []string) {
		return strings.ToUpper(msg), []string{"general"}
	}))
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat/send", `{"message":"hi"}`)
	require.Contains(t, rec.Body.String(), `"response":"HI"`)
}

func TestSend_WorksWithClient(t *testing.T) {
	srv := httptest.NewServer(New("").Handler())
	defer srv.Close()

	c := chatapi.NewClientWithConfig(&chatapi.ClientConfig{Endpoint: srv.URL + "/api/chat/send"})
	reply, err := c.Send(context.Background(), "round trip")
	require.NoError(t, err)
	require.Equal(t, "Echo: round trip", reply)
}

func TestSend_WrongMethod(t *testing.T) {
	rec := doJSON(t, New("").Handler(), http.MethodGet, "/api/chat/send", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin(t *testing.T) {
	s := New("")

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/auth/login", `{"username":" ada ","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Equal(t, model.User{Username: "ada", Email: "ada@example.com"}, resp.User)
}

func TestLogin_RequiresBothFields(t *testing.T) {
	s := New("")
	for _, body := range []string{`{"username":"ada"}`, `{"email":"a@b.c"}`, `{"username":" ","email":" "}`} {
		rec := doJSON(t, s.Handler(), http.MethodPost, "/api/auth/login", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Contains(t, rec.Body.String(), "Username and email are required")
	}
}

// =============================================================================
// HISTORY / STATUS TESTS
// =============================================================================

func TestHistoryAndClear(t *testing.T) {
	s := New("")
	h := s.Handler()

	doJSON(t, h, http.MethodPost, "/api/chat/send", `{"message":"one"}`)

	rec := doJSON(t, h, http.MethodGet, "/api/chat/history", "")
	var hist HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hist))
	require.True(t, hist.Success)
	require.Len(t, hist.Messages, 2)
	require.Equal(t, "one", hist.Messages[0].Content)

	rec = doJSON(t, h, http.MethodPost, "/api/chat/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/chat/history", "")
	require.JSONEq(t, `{"success":true,"messages":[]}`, rec.Body.String())
}

func TestHistory_Bounded(t *testing.T) {
	s := New("", WithRateLimiter(nil))
	for i := 0; i < MaxHistory; i++ {
		s.record(model.NewUserMessage("x"))
	}
	s.record(model.NewUserMessage("last"))
	hist := s.History()
	require.Len(t, hist, MaxHistory)
	require.Equal(t, "last", hist[len(hist)-1].Content)
}

func TestStatus(t *testing.T) {
	rec := doJSON(t, New("").Handler(), http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	require.True(t, st.Success)
	require.Equal(t, model.LabelAvailable, st.Status)
	require.False(t, st.IsThinking)
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, New("").Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestNotFound(t *testing.T) {
	rec := doJSON(t, New("").Handler(), http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestRateLimit(t *testing.T) {
	s := New("", WithRateLimiter(NewRateLimiter(0.001, 2)))
	h := s.Handler()

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodGet, "/healthz", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.2"))
	require.Equal(t, 2, rl.Visitors())
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	require.Equal(t, 1, rl.Visitors())

	now = now.Add(rl.idle * 2)
	rl.Allow("10.0.0.2")
	require.Equal(t, 1, rl.Visitors())
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(zapNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	h := New("").Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/chat/send", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.9:1234", "", "203.0.113.9"},
		{"untrusted peer ignores header", "203.0.113.9:1234", "1.2.3.4", "203.0.113.9"},
		{"trusted proxy", "127.0.0.1:80", "198.51.100.7, 10.0.0.1", "198.51.100.7"},
		{"trusted proxy bad header", "10.1.1.1:80", "not-an-ip", "10.1.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			require.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zapToBuffer(&buf)

	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))
	logger.Sync()

	require.Contains(t, buf.String(), `"status":418`)
	require.Contains(t, buf.String(), `"path":"/tea"`)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestShutdownBeforeStart(t *testing.T) {
	require.NoError(t, New("").Shutdown(context.Background()))
}
