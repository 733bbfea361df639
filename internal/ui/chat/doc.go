// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the aura TUI.

The view is a Bubble Tea model layered over a session controller. It never
holds conversation state of its own: every frame is drawn from the last
controller snapshot it received.

# Layout

  - Header: brand and the active session id
  - Sidebar: "Recent Chats", the backend's session list
  - Transcript: welcome screen, messages, and a spinner while busy
  - Input: single-line prompt, ignored while a request is in flight
  - Status bar: shortcut hints or the last error

# Data Flow

Controller calls run inside tea.Cmds. The controller's observer forwards
each snapshot to the program as a StateChangedMsg, and each command ends
with a done message carrying its error. Update must not call controller
methods directly, because the observer sends into the program and would
block the event loop.

# Usage

	var program *tea.Program
	ctrl := session.NewController(client, store,
	    session.WithObserver(chat.Forward(func(msg tea.Msg) { program.Send(msg) })),
	)
	program = tea.NewProgram(chat.New(ctx, ctrl, theme, chat.Options{}), tea.WithAltScreen())
	_, err := program.Run()
*/
package chat
