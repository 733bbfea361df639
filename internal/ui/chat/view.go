// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
	"github.com/jeranaias/aura-tui/internal/util"
)

const (
	welcomeTitle = "Welcome to Aura AI"
	welcomeText  = "Experience the next generation of conversational intelligence. How can I assist you today?"
	thinkingText = "Aura is thinking..."
)

// View renders the chat view.
func (m Model) View() string {
	if !m.ready {
		return "Starting Aura..."
	}

	body := m.viewport.View()
	if w := m.sidebarWidth(); w > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(w, m.viewport.Height), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("Aura AI")

	subtitle := "New chat"
	if m.state.SessionID != "" {
		subtitle = "Session " + util.TruncateRunes(m.state.SessionID, 24)
	}
	left := brand + "  " + m.theme.HeaderSubtitle.Render(subtitle)

	right := ""
	if m.opts.BackendURL != "" {
		right = m.theme.HeaderSubtitle.Render(m.opts.BackendURL)
	}

	// Header padding takes two columns.
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(line)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar draws the session list into a box of the given outer size.
func (m Model) renderSidebar(width, height int) string {
	box := m.theme.Sidebar
	if m.focus == focusSidebar {
		box = m.theme.SidebarFocused
	}

	// Border takes two columns and rows, padding two more columns.
	inner := width - 4
	rows := height - 2
	if inner < 4 || rows < 1 {
		return ""
	}

	lines := []string{m.theme.SidebarTitle.Render("Recent Chats")}
	// SidebarTitle carries a one-line bottom margin.
	avail := rows - 2

	if len(m.state.Sessions) == 0 {
		lines = append(lines, m.theme.SidebarEmpty.Render("No chats yet"))
	} else {
		start, end := visibleRange(len(m.state.Sessions), m.cursor, avail)
		for i := start; i < end; i++ {
			lines = append(lines, m.renderSidebarItem(i, inner))
		}
	}

	return box.
		Width(width - 2).
		Height(rows).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderSidebarItem(i, width int) string {
	s := m.state.Sessions[i]
	active := s.SessionID != "" && s.SessionID == m.state.SessionID

	marker := styles.StatusIndicators.Active + " "
	if !active {
		marker = strings.Repeat(" ", lipgloss.Width(marker))
	}
	label := marker + util.TruncateWidth(util.SingleLine(s.Label()), width-lipgloss.Width(marker))

	switch {
	case m.focus == focusSidebar && i == m.cursor:
		return m.theme.SidebarSelected.Width(width).Render(label)
	case active:
		return m.theme.SidebarActive.Render(label)
	default:
		return m.theme.SidebarItem.Render(label)
	}
}

// visibleRange returns the window of n rows of size avail that keeps cursor
// in view.
func visibleRange(n, cursor, avail int) (int, int) {
	if avail < 1 {
		avail = 1
	}
	if n <= avail {
		return 0, n
	}
	start := cursor - avail/2
	if start < 0 {
		start = 0
	}
	if start+avail > n {
		start = n - avail
	}
	return start, start + avail
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the viewport content from the current snapshot.
func (m Model) renderTranscript() string {
	width := m.viewport.Width

	if m.state.Conversation.IsEmpty() && !m.state.Busy {
		welcome := lipgloss.JoinVertical(lipgloss.Center,
			m.theme.WelcomeTitle.Render(welcomeTitle),
			m.theme.WelcomeText.Width(min(width-4, 60)).Align(lipgloss.Center).Render(welcomeText),
		)
		return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, welcome)
	}

	blocks := make([]string, 0, len(m.state.Conversation)+1)
	for _, msg := range m.state.Conversation {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	if m.state.Busy {
		blocks = append(blocks, m.theme.Thinking.Render(m.spinner.View()+" "+thinkingText))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg model.Message, width int) string {
	var label string
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel.Render(msg.Role.DisplayName())
	} else {
		label = m.theme.AssistantLabel.Render(msg.Role.DisplayName())
	}

	textWidth := width - 2
	if textWidth < 1 {
		textWidth = 1
	}

	var body string
	switch {
	case msg.Role == model.RoleAssistant && msg.Content == session.ConnectionErrorMessage:
		body = m.theme.ErrorText.Width(textWidth).Render(styles.StatusIndicators.Error + " " + msg.Content)
	case msg.Role == model.RoleAssistant && m.renderer != nil:
		body = m.renderMarkdown(msg)
	default:
		body = m.theme.MessageText.Width(textWidth).Render(msg.Content)
	}
	return label + "\n" + body
}

// renderMarkdown renders an assistant reply through glamour, caching by
// message id until the next resize.
func (m Model) renderMarkdown(msg model.Message) string {
	if out, ok := m.rendered[msg.ID]; ok && msg.ID != "" {
		return out
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		return m.theme.MessageText.Render(msg.Content)
	}
	out = strings.Trim(out, "\n")
	if msg.ID != "" {
		m.rendered[msg.ID] = out
	}
	return out
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	if m.status != "" {
		style := m.theme.StatusBar
		text := m.status
		if m.statusIsErr {
			style = m.theme.StatusError
			text = styles.StatusIndicators.Error + " " + text
		}
		return style.Width(m.width).MaxHeight(statusHeight).Render(util.TruncateWidth(text, m.width-2))
	}

	bindings := m.keys.ShortHelp()
	if m.focus == focusSidebar {
		bindings = m.keys.SidebarHelp()
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusHeight).Render(m.renderHints(bindings, m.width-2))
}

// renderHints joins key hints until the width runs out.
func (m Model) renderHints(bindings []key.Binding, width int) string {
	var parts []string
	used := 0
	for _, b := range bindings {
		h := b.Help()
		part := m.theme.ShortcutKey.Render(h.Key) + " " + m.theme.ShortcutDesc.Render(h.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
