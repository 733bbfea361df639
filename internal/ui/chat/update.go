// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aura-tui/internal/backend"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/util"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshViewport(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateChangedMsg:
		return m.applyState(msg.State)

	case initDoneMsg:
		if msg.err != nil {
			m.setError("Could not reach the backend. Is it running?")
		}
		return m.applyState(m.ctrl.State())

	case sendDoneMsg:
		m.pending = false
		if msg.err != nil && !isGuardError(msg.err) {
			m.setError("Send failed: " + errorSummary(msg.err))
		} else if msg.err == nil {
			m.setStatus("")
		}
		return m.applyState(m.ctrl.State())

	case loadDoneMsg:
		m.pending = false
		if msg.err != nil {
			if !isGuardError(msg.err) {
				m.setError(fmt.Sprintf("Failed to load chat %s", util.TruncateRunes(msg.sessionID, 16)))
			}
		} else {
			m.setStatus(fmt.Sprintf("Loaded chat %s", util.TruncateRunes(msg.sessionID, 16)))
		}
		return m.applyState(m.ctrl.State())

	case newChatDoneMsg:
		m.setStatus("Started a new chat")
		return m.applyState(m.ctrl.State())

	case refreshDoneMsg:
		if msg.err != nil {
			m.setError("Failed to refresh chats")
		} else {
			m.setStatus("Chats refreshed")
		}
		return m.applyState(m.ctrl.State())

	case clipboardMsg:
		if msg.err != nil {
			m.setError("Copy failed: " + msg.err.Error())
		} else {
			m.setStatus("Copied last reply")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport(false)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyState stores a controller snapshot and redraws from it.
func (m Model) applyState(s session.State) (tea.Model, tea.Cmd) {
	wasBusy := m.state.Busy
	changed := len(s.Conversation) != len(m.state.Conversation) || s.SessionID != m.state.SessionID
	m.state = s
	m.clampCursor()
	m.refreshViewport(changed || s.Busy != wasBusy)

	if s.Busy && !wasBusy {
		return m, m.spinner.Tick
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		m.focusInput()
		return m, newChatCmd(m.ctrl)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing chats...")
		return m, refreshCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.CopyReply):
		last, ok := m.state.Conversation.LastAssistant()
		if !ok {
			m.setError("No reply to copy")
			return m, nil
		}
		return m, copyCmd(last.Content)

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		if !m.showSidebar {
			m.focusInput()
		}
		m.layout()
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.focus == focusSidebar {
			m.focusInput()
			return m, nil
		}
		m.focusSidebar()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Send) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Back):
		m.focusInput()
	case key.Matches(msg, m.keys.Send):
		if len(m.state.Sessions) == 0 {
			return m, nil
		}
		if m.busy() {
			m.setStatus("Waiting for the current request")
			return m, nil
		}
		id := m.state.Sessions[m.cursor].SessionID
		m.focusInput()
		m.pending = true
		m.setStatus("Loading chat...")
		return m, loadCmd(m.ctx, m.ctrl, id)
	}
	return m, nil
}

// submit sends the input text. Empty input and input typed while a request
// is in flight are left in place.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.busy() {
		m.setStatus("Waiting for the current reply")
		return m, nil
	}
	m.input.Reset()
	m.pending = true
	m.setStatus("")
	return m, sendCmd(m.ctx, m.ctrl, text)
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) focusSidebar() {
	m.focus = focusSidebar
	m.input.Blur()
	if !m.showSidebar {
		m.showSidebar = true
		m.layout()
		m.refreshViewport(false)
	}
	if i := m.activeIndex(); i >= 0 {
		m.cursor = i
	}
	m.clampCursor()
}

// isGuardError reports errors the controller returns without touching state.
func isGuardError(err error) bool {
	return errors.Is(err, session.ErrBusy) ||
		errors.Is(err, session.ErrEmptyMessage) ||
		errors.Is(err, session.ErrEmptySessionID)
}

// errorSummary prefers the backend client's own message over the full
// wrapped chain.
func errorSummary(err error) string {
	var clientErr *backend.ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}
