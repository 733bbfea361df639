// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// SessionSummary is one entry of the backend's session list. The backend may
// attach more fields; only the ones below are decoded.
type SessionSummary struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Label returns the text shown for the session in lists.
func (s SessionSummary) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.SessionID
}

// CloneSessions copies a session list.
func CloneSessions(in []SessionSummary) []SessionSummary {
	if in == nil {
		return []SessionSummary{}
	}
	out := make([]SessionSummary, len(in))
	copy(out, in)
	return out
}
