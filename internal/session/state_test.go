// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/aura-tui/internal/model"
)

// pairs flattens a conversation to "role:content" strings for comparison.
func pairs(conv model.Conversation) []string {
	out := make([]string, 0, len(conv))
	for _, m := range conv {
		out = append(out, string(m.Role)+":"+m.Content)
	}
	return out
}

func TestReduce_SendLifecycle(t *testing.T) {
	s := State{Conversation: model.Conversation{}}

	s = Reduce(s, SendStarted{Message: model.NewUserMessage("hi")})
	assert.True(t, s.Busy)
	assert.Equal(t, []string{"user:hi"}, pairs(s.Conversation))

	s = Reduce(s, ReplyReceived{Reply: model.NewAssistantMessage("hello"), SessionID: "s1"})
	assert.False(t, s.Busy)
	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, []string{"user:hi", "assistant:hello"}, pairs(s.Conversation))
}

func TestReduce_ReplyDoesNotReplaceSession(t *testing.T) {
	s := State{SessionID: "abc123", Busy: true}
	s = Reduce(s, ReplyReceived{Reply: model.NewAssistantMessage("x"), SessionID: "other"})

	if s.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want %q", s.SessionID, "abc123")
	}
}

func TestReduce_SendFailedKeepsSession(t *testing.T) {
	s := State{SessionID: "abc123", Busy: true}
	s = Reduce(s, SendFailed{Reply: model.NewAssistantMessage(ConnectionErrorMessage)})

	assert.False(t, s.Busy)
	assert.Equal(t, "abc123", s.SessionID)
	assert.Equal(t, []string{"assistant:" + ConnectionErrorMessage}, pairs(s.Conversation))
}

func TestReduce_LoadLifecycle(t *testing.T) {
	s := State{Conversation: model.Conversation{model.NewUserMessage("old")}}

	s = Reduce(s, LoadStarted{SessionID: "s1"})
	assert.True(t, s.Busy)
	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, []string{"user:old"}, pairs(s.Conversation), "conversation kept until history arrives")

	history := model.Conversation{model.NewUserMessage("Hello"), model.NewAssistantMessage("Hi there")}
	s = Reduce(s, HistoryLoaded{Conversation: history})
	assert.False(t, s.Busy)
	assert.Equal(t, []string{"user:Hello", "assistant:Hi there"}, pairs(s.Conversation))
}

func TestReduce_ChatReset(t *testing.T) {
	sessions := []model.SessionSummary{{SessionID: "s1"}}
	s := State{
		Conversation: model.Conversation{model.NewUserMessage("hi")},
		SessionID:    "s1",
		Sessions:     sessions,
		Busy:         true,
	}

	s = Reduce(s, ChatReset{})
	assert.Empty(t, s.Conversation)
	assert.NotNil(t, s.Conversation)
	assert.Equal(t, "", s.SessionID)
	assert.Equal(t, sessions, s.Sessions, "session list untouched")
	assert.True(t, s.Busy, "busy flag untouched")

	again := Reduce(s, ChatReset{})
	assert.Equal(t, s, again, "reset is idempotent")
}

func TestReduce_DoesNotAliasInput(t *testing.T) {
	base := make(model.Conversation, 1, 8)
	base[0] = model.NewUserMessage("first")
	s := State{Conversation: base}

	a := Reduce(s, SendStarted{Message: model.NewUserMessage("a")})
	b := Reduce(s, SendStarted{Message: model.NewUserMessage("b")})

	assert.Equal(t, []string{"user:first", "user:a"}, pairs(a.Conversation))
	assert.Equal(t, []string{"user:first", "user:b"}, pairs(b.Conversation))
	assert.Len(t, s.Conversation, 1)
}

func TestReduce_NilEvent(t *testing.T) {
	s := State{SessionID: "s1"}
	assert.Equal(t, s, Reduce(s, nil))
}

func TestState_Clone(t *testing.T) {
	s := State{
		Conversation: model.Conversation{model.NewUserMessage("hi")},
		Sessions:     []model.SessionSummary{{SessionID: "s1"}},
	}
	c := s.Clone()
	c.Conversation[0].Content = "changed"
	c.Sessions[0].SessionID = "changed"

	assert.Equal(t, "hi", s.Conversation[0].Content)
	assert.Equal(t, "s1", s.Sessions[0].SessionID)
}
