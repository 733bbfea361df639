// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Aura chat backend.
//
// The backend contract is fixed and consists of three calls:
//
//   - POST /chat          send the conversation, receive one assistant reply
//   - GET  /sessions      list known sessions
//   - GET  /history/{id}  fetch the ordered messages of one session
//
// # Key Types
//
//   - Client: HTTP client for the three calls plus a health check
//   - ChatResponse: reply content and the session id the backend assigned
//   - ClientError: categorized transport/protocol error
//
// # Usage
//
//	client := backend.NewClient(&backend.ClientConfig{BaseURL: "http://localhost:8000"})
//	resp, err := client.Chat(ctx, conv, "")
//	if backend.IsNotRunning(err) {
//	    // show a hint to start the backend
//	}
//
// Responses are never streamed and requests are never retried.
package backend
