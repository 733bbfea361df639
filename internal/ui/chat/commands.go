// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func initCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: ctrl.Initialize(ctx)}
	}
}

func sendCmd(ctx context.Context, ctrl Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: ctrl.SendMessage(ctx, text)}
	}
}

func loadCmd(ctx context.Context, ctrl Controller, id string) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{sessionID: id, err: ctrl.LoadSession(ctx, id)}
	}
}

func newChatCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.NewChat()
		return newChatDoneMsg{}
	}
}

func refreshCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: ctrl.RefreshSessionList(ctx)}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: copyToClipboard(text)}
	}
}
