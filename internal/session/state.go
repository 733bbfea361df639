// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/jeranaias/aura-tui/internal/model"

// ConnectionErrorMessage is the assistant reply substituted when a chat
// request fails.
const ConnectionErrorMessage = "Connection error. Is the backend running?"

// State is the controller's observable state.
type State struct {
	// Conversation is the transcript of the active session.
	Conversation model.Conversation

	// SessionID is the active backend session ("" when none).
	SessionID string

	// Sessions is the last fetched remote session list.
	Sessions []model.SessionSummary

	// Busy is set while a send or load is in flight.
	Busy bool
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Conversation: s.Conversation.Clone(),
		SessionID:    s.SessionID,
		Sessions:     model.CloneSessions(s.Sessions),
		Busy:         s.Busy,
	}
}

// HasSession reports whether a session is active.
func (s State) HasSession() bool {
	return s.SessionID != ""
}

// CanSend reports whether a send would currently be accepted.
func (s State) CanSend() bool {
	return !s.Busy
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is an input to Reduce.
type Event interface {
	apply(State) State
}

// SendStarted records the user's message and raises the busy gate.
type SendStarted struct {
	Message model.Message
}

func (e SendStarted) apply(s State) State {
	s.Conversation = s.Conversation.Append(e.Message)
	s.Busy = true
	return s
}

// ReplyReceived appends the assistant reply. SessionID is adopted only when
// no session was active.
type ReplyReceived struct {
	Reply     model.Message
	SessionID string
}

func (e ReplyReceived) apply(s State) State {
	s.Conversation = s.Conversation.Append(e.Reply)
	if s.SessionID == "" && e.SessionID != "" {
		s.SessionID = e.SessionID
	}
	s.Busy = false
	return s
}

// SendFailed appends the fallback reply and leaves the session id alone.
type SendFailed struct {
	Reply model.Message
}

func (e SendFailed) apply(s State) State {
	s.Conversation = s.Conversation.Append(e.Reply)
	s.Busy = false
	return s
}

// LoadStarted points the controller at a session before its history arrives.
type LoadStarted struct {
	SessionID string
}

func (e LoadStarted) apply(s State) State {
	s.SessionID = e.SessionID
	s.Busy = true
	return s
}

// HistoryLoaded replaces the conversation wholesale.
type HistoryLoaded struct {
	Conversation model.Conversation
}

func (e HistoryLoaded) apply(s State) State {
	s.Conversation = e.Conversation.Clone()
	s.Busy = false
	return s
}

// BusyCleared lowers the busy gate without any other change. It ends a
// failed load and any request made stale by NewChat.
type BusyCleared struct{}

func (BusyCleared) apply(s State) State {
	s.Busy = false
	return s
}

// ChatReset empties the conversation and forgets the session id. The
// session list and busy flag are untouched.
type ChatReset struct{}

func (ChatReset) apply(s State) State {
	s.Conversation = model.Conversation{}
	s.SessionID = ""
	return s
}

// SessionsReplaced swaps in a freshly fetched session list.
type SessionsReplaced struct {
	Sessions []model.SessionSummary
}

func (e SessionsReplaced) apply(s State) State {
	s.Sessions = model.CloneSessions(e.Sessions)
	return s
}

// Reduce applies ev to s and returns the new state. It performs no I/O and
// never mutates memory reachable from s.
func Reduce(s State, ev Event) State {
	if ev == nil {
		return s
	}
	return ev.apply(s)
}
