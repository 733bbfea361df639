// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation session controller.
//
// The controller owns the local conversation, the active session id and the
// cached list of remote sessions, and keeps them consistent across new chat,
// send, load and startup restore.
//
// # Key Types
//
//   - Controller: state container plus the side-effect boundary
//   - State: snapshot of conversation, session id, session list and busy flag
//   - Event: input to the pure Reduce transition function
//   - Backend: the three backend calls the controller depends on
//
// # Usage
//
//	ctrl := session.NewController(client, store,
//	    session.WithObserver(func(s session.State) { program.Send(s) }),
//	)
//	_ = ctrl.Initialize(ctx)
//
//	if err := ctrl.SendMessage(ctx, "Hello"); err != nil {
//	    // The conversation already holds the fallback reply.
//	}
//
// # Concurrency
//
// At most one SendMessage or LoadSession runs at a time. A second call while
// one is in flight returns ErrBusy without touching state or the network.
// In-flight requests are not cancelled by NewChat; their late results are
// discarded instead.
package session
