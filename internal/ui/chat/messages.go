// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aura-tui/internal/session"
)

// StateChangedMsg carries a controller snapshot into the program.
type StateChangedMsg struct {
	State session.State
}

// Forward adapts a send function (usually tea.Program.Send) into a
// controller observer.
func Forward(send func(tea.Msg)) session.Observer {
	return func(s session.State) {
		send(StateChangedMsg{State: s})
	}
}

// initDoneMsg reports the end of startup restore.
type initDoneMsg struct {
	err error
}

// sendDoneMsg reports the end of a send.
type sendDoneMsg struct {
	err error
}

// loadDoneMsg reports the end of a session load.
type loadDoneMsg struct {
	sessionID string
	err       error
}

// newChatDoneMsg reports that the conversation was reset.
type newChatDoneMsg struct{}

// refreshDoneMsg reports the end of a session list refresh.
type refreshDoneMsg struct {
	err error
}

// clipboardMsg reports the result of copying the last reply.
type clipboardMsg struct {
	err error
}
