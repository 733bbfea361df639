// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Role: who sent a message (user or assistant)
//   - Message: one immutable entry of a conversation
//   - Conversation: ordered, append-only slice of messages
//   - SessionSummary: one entry of the backend's session list
//
// # Usage
//
//	conv := model.Conversation{}
//	conv = conv.Append(model.NewUserMessage("Hello"))
//	last := conv.Last()
package model
