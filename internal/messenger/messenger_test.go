// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package messenger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
)

// fakeSender records calls and returns a canned reply or error.
type fakeSender struct {
	mu    sync.Mutex
	calls []string
	reply string
	err   error
}

func (f *fakeSender) Send(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.reply, f.err
}

func newTestMessenger(t *testing.T, sender Sender) (*Messenger, *session.Store, *session.MemoryPersister) {
	t.Helper()
	p := session.NewMemoryPersister()
	store, err := session.Open(p)
	require.NoError(t, err)
	return New(store, sender), store, p
}

func activeMessages(t *testing.T, store *session.Store) []model.ChatMessage {
	t.Helper()
	s, ok := store.Active()
	require.True(t, ok)
	return s.Messages
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsUserMessageImmediately(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "hi"})

	p, err := m.Submit("  Hello!  ")
	require.NoError(t, err)
	require.Equal(t, "Hello!", p.Text)
	require.Equal(t, store.ActiveID(), p.SessionID)

	msgs := activeMessages(t, store)
	require.Len(t, msgs, 1)
	require.Equal(t, model.RoleUser, msgs[0].Role)
	require.Equal(t, "Hello!", msgs[0].Content)

	st := m.Status()
	require.True(t, st.IsThinking)
	require.Equal(t, model.LabelThinking, st.Label())
	require.True(t, m.Busy())
}

func TestSubmit_RejectsBlankInput(t *testing.T) {
	sender := &fakeSender{}
	m, store, p := newTestMessenger(t, sender)
	saves := p.Saves()

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := m.Submit(in)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}

	require.Empty(t, activeMessages(t, store))
	require.Equal(t, saves, p.Saves(), "blank input should not write")
	require.False(t, m.Busy())
	require.Equal(t, model.LabelAvailable, m.Status().Label())
	require.Empty(t, sender.calls)
}

func TestSubmit_BusyWhileThinking(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "x"})

	_, err := m.Submit("first")
	require.NoError(t, err)

	_, err = m.Submit("second")
	require.ErrorIs(t, err, ErrBusy)
	require.Len(t, activeMessages(t, store), 1)
}

func TestSubmit_NoActiveSession(t *testing.T) {
	store, err := session.Open(session.NewMemoryPersisterWith([]model.ChatSession{}))
	require.NoError(t, err)
	m := New(store, &fakeSender{})

	_, err = m.Submit("hello")
	require.ErrorIs(t, err, ErrNoActiveSession)
	require.False(t, m.Busy())
}

func TestSubmit_DerivesTitle(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "ok"})

	long := strings.Repeat("abcdefghij", 4)
	_, err := m.Submit(long)
	require.NoError(t, err)

	s, _ := store.Active()
	require.Equal(t, long[:30]+"...", s.Title)
}

func TestSubmit_PersistFailureLeavesIdle(t *testing.T) {
	m, store, p := newTestMessenger(t, &fakeSender{})
	p.SaveErr = errors.New("disk full")

	_, err := m.Submit("hello")
	require.Error(t, err)
	require.False(t, m.Busy())
	require.True(t, m.Status().IsIdle())
	require.Empty(t, activeMessages(t, store))
}

// =============================================================================
// SETTLE TESTS
// =============================================================================

func TestSendFlow_Success(t *testing.T) {
	sender := &fakeSender{reply: "Hi there"}
	m, store, p := newTestMessenger(t, sender)

	pending, err := m.Submit("Hello!")
	require.NoError(t, err)

	res := m.Deliver(context.Background(), pending)
	require.NoError(t, res.Err)

	msg, err := m.Settle(res)
	require.NoError(t, err)
	require.Equal(t, model.RoleAssistant, msg.Role)
	require.Equal(t, "Hi there", msg.Content)

	msgs := activeMessages(t, store)
	require.Len(t, msgs, 2)
	require.Equal(t, "Hi there", msgs[1].Content)
	require.Equal(t, []string{"Hello!"}, sender.calls)

	st := m.Status()
	require.False(t, st.IsThinking)
	require.Equal(t, model.LabelAvailable, st.Label())
	require.False(t, m.Busy())

	// persisted list matches memory
	saved := p.Saved()
	require.Len(t, saved[0].Messages, 2)
}

func TestSendFlow_FailureAppendsApology(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{err: errors.New("connection refused")})

	msg, err := m.Send(context.Background(), "Hello!")
	require.NoError(t, err)
	require.Equal(t, ApologyMessage, msg.Content)

	msgs := activeMessages(t, store)
	require.Len(t, msgs, 2)
	require.Equal(t, model.RoleAssistant, msgs[1].Role)
	require.Equal(t, "Sorry, I encountered an error. Please try again.", msgs[1].Content)
	require.True(t, m.Status().IsIdle())
}

func TestSendFlow_HTTPFailuresAreIdentical(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("nope"))
		},
		"missing field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true}`))
		},
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			client := chatapi.NewClientWithConfig(&chatapi.ClientConfig{Endpoint: srv.URL})
			m, store, _ := newTestMessenger(t, client)

			_, err := m.Send(context.Background(), "hi")
			require.NoError(t, err)

			msgs := activeMessages(t, store)
			require.Len(t, msgs, 2)
			require.Equal(t, ApologyMessage, msgs[1].Content)
		})
	}
}

func TestSendFlow_ReplyGoesToOriginatingSession(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "answer"})
	origin := store.ActiveID()

	pending, err := m.Submit("question")
	require.NoError(t, err)

	// User switches to a new session while the request is in flight.
	other, err := store.Create()
	require.NoError(t, err)

	_, err = m.Settle(m.Deliver(context.Background(), pending))
	require.NoError(t, err)

	o, _ := store.Get(origin)
	require.Len(t, o.Messages, 2)
	n, _ := store.Get(other.ID)
	require.Empty(t, n.Messages)
}

func TestSettle_SessionDeletedWhileInFlight(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "late"})

	pending, err := m.Submit("question")
	require.NoError(t, err)
	require.NoError(t, store.Delete(pending.SessionID))

	_, err = m.Settle(m.Deliver(context.Background(), pending))
	require.ErrorIs(t, err, ErrSessionGone)
	require.False(t, m.Busy())
	require.True(t, m.Status().IsIdle())

	// The replacement session stays empty.
	require.Empty(t, activeMessages(t, store))
}

func TestSend_AllowsNextMessageAfterSettle(t *testing.T) {
	m, store, _ := newTestMessenger(t, &fakeSender{reply: "ok"})

	for i := 0; i < 3; i++ {
		_, err := m.Send(context.Background(), "msg")
		require.NoError(t, err)
	}
	require.Len(t, activeMessages(t, store), 6)
}

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestToggles(t *testing.T) {
	m, _, _ := newTestMessenger(t, &fakeSender{})

	st := m.ToggleListening()
	require.True(t, st.IsListening)
	require.Equal(t, model.LabelListening, m.Status().Label())

	st = m.ToggleSpeaking()
	require.True(t, st.IsSpeaking)

	st = m.ToggleListening()
	require.False(t, st.IsListening)
	require.Equal(t, model.LabelSpeaking, st.Label())
}
