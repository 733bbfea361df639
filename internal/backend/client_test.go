// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aura-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, 120*time.Second, c.config.Timeout)
	assert.Nil(t, c.limiter)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient(&ClientConfig{BaseURL: "http://example.test:9000///"})
	assert.Equal(t, "http://example.test:9000", c.BaseURL())
}

func TestNewClient_RateLimiter(t *testing.T) {
	c := NewClient(&ClientConfig{RequestsPerSecond: 0.5})
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_NullSessionID(t *testing.T) {
	var raw map[string]json.RawMessage

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &raw))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role":"assistant","content":"Hi there","session_id":"s1","reasoning_details":null}`))
	})

	conv := model.Conversation{}.Append(model.NewUserMessage("Hello"))
	resp, err := c.Chat(context.Background(), conv, "")
	require.NoError(t, err)

	assert.Equal(t, "Hi there", resp.Content)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "null", string(raw["session_id"]))
	assert.JSONEq(t, `[{"role":"user","content":"Hello"}]`, string(raw["messages"]))
	_, hasModel := raw["model"]
	assert.False(t, hasModel, "model should be omitted when unset")
}

func TestChat_ExistingSessionAndModel(t *testing.T) {
	var got ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":"ok","session_id":"abc123"}`))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL, Model: "openai/gpt-oss-20b:free"})
	conv := model.Conversation{}.Append(
		model.NewUserMessage("one"),
		model.NewAssistantMessage("two"),
		model.NewUserMessage("three"),
	)

	_, err := c.Chat(context.Background(), conv, "abc123")
	require.NoError(t, err)

	require.NotNil(t, got.SessionID)
	assert.Equal(t, "abc123", *got.SessionID)
	assert.Equal(t, "openai/gpt-oss-20b:free", got.Model)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, WireMessage{Role: "user", Content: "three"}, got.Messages[2])
}

func TestChat_HTTPErrorWithDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"database is locked"}`))
	})

	_, err := c.Chat(context.Background(), model.Conversation{}.Append(model.NewUserMessage("x")), "")
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeHTTPStatus, clientErr.Type)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "database is locked")
}

func TestChat_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.Chat(context.Background(), model.Conversation{}.Append(model.NewUserMessage("x")), "")

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestChat_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.Chat(context.Background(), model.Conversation{}.Append(model.NewUserMessage("x")), "")

	require.Error(t, err)
	assert.True(t, IsNotRunning(err), "got %v", err)
	assert.True(t, errors.Is(err, ErrNotRunning))
	assert.False(t, IsTimeout(err))
}

func TestChat_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Chat(context.Background(), model.Conversation{}.Append(model.NewUserMessage("x")), "")

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

// =============================================================================
// SESSION LIST / HISTORY TESTS
// =============================================================================

func TestListSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions", r.URL.Path)
		w.Write([]byte(`[{"session_id":"s1","created_at":"2025-01-01 10:00:00"},{"session_id":"s2","extra":true}]`))
	})

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].SessionID)
	assert.Equal(t, "2025-01-01 10:00:00", sessions[0].CreatedAt)
	assert.Equal(t, "s2", sessions[1].SessionID)
}

func TestListSessions_Null(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestHistory_ProjectsRoleAndContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/s1", r.URL.Path)
		w.Write([]byte(`[
			{"role":"user","content":"Hello","reasoning_details":null},
			{"role":"assistant","content":"Hi there","reasoning_details":{"steps":[1,2]}}
		]`))
	})

	conv, err := c.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.True(t, conv[0].SameContent(model.Message{Role: model.RoleUser, Content: "Hello"}))
	assert.True(t, conv[1].SameContent(model.Message{Role: model.RoleAssistant, Content: "Hi there"}))
}

func TestHistory_EscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/a%2Fb", r.URL.EscapedPath())
		w.Write([]byte(`[]`))
	})

	conv, err := c.History(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Empty(t, conv)
}

func TestHistory_EmptyID(t *testing.T) {
	c := NewClient(nil)
	_, err := c.History(context.Background(), "")

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeRequest, clientErr.Type)
}

func TestCheckRunning(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"message":"Conversational AI API is running"}`))
	})

	assert.NoError(t, c.CheckRunning(context.Background()))
}

func TestErrorType_String(t *testing.T) {
	tests := map[ErrorType]string{
		ErrTypeNotRunning:      "not_running",
		ErrTypeTimeout:         "timeout",
		ErrTypeHTTPStatus:      "http_status",
		ErrTypeInvalidResponse: "invalid_response",
		ErrTypeRequest:         "request",
		ErrTypeUnknown:         "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
