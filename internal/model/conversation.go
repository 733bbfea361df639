// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Conversation is the ordered client-side sequence of messages for the
// active session. Methods never mutate the receiver's backing array, so a
// Conversation handed to a renderer stays stable.
type Conversation []Message

// Append returns a new conversation with msgs added at the end.
func (c Conversation) Append(msgs ...Message) Conversation {
	out := make(Conversation, 0, len(c)+len(msgs))
	out = append(out, c...)
	return append(out, msgs...)
}

// Clone returns a copy that shares no memory with c.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return Conversation{}
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// Last returns the most recent message, or false if the conversation is empty.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// LastAssistant returns the most recent assistant message.
func (c Conversation) LastAssistant() (Message, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleAssistant {
			return c[i], true
		}
	}
	return Message{}, false
}

// Title derives a short title from the first user message.
func (c Conversation) Title() string {
	for _, msg := range c {
		if msg.Role == RoleUser && msg.Content != "" {
			return msg.Preview(50)
		}
	}
	return "New conversation"
}

// IsEmpty reports whether the conversation has no messages.
func (c Conversation) IsEmpty() bool {
	return len(c) == 0
}
