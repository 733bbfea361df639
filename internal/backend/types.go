// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "encoding/json"

// =============================================================================
// WIRE TYPES
// =============================================================================

// WireMessage is the {role, content} pair exchanged with the backend.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for POST /chat.
// SessionID is a pointer so that an unset session encodes as JSON null.
type ChatRequest struct {
	Messages  []WireMessage `json:"messages"`
	SessionID *string       `json:"session_id"`
	Model     string        `json:"model,omitempty"`
}

// ChatResponse is the response body of POST /chat.
type ChatResponse struct {
	Role             string          `json:"role,omitempty"`
	Content          string          `json:"content"`
	SessionID        string          `json:"session_id"`
	ReasoningDetails json.RawMessage `json:"reasoning_details,omitempty"`
}

// historyEntry is one element of GET /history/{id}. Other fields the backend
// attaches (reasoning details, timestamps) are dropped on decode.
type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiError is the error body FastAPI style backends return on non-2xx.
type apiError struct {
	Detail string `json:"detail"`
}
