// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// Controller is the part of session.Controller the view drives.
type Controller interface {
	State() session.State
	Initialize(ctx context.Context) error
	SendMessage(ctx context.Context, text string) error
	LoadSession(ctx context.Context, sessionID string) error
	NewChat()
	RefreshSessionList(ctx context.Context) error
}

// Options configures the chat view.
type Options struct {
	// RenderMarkdown renders assistant replies through glamour.
	RenderMarkdown bool

	// HideSidebar starts with the session sidebar collapsed.
	HideSidebar bool

	// BackendURL is shown in the header when set.
	BackendURL string
}

// focusArea is the widget receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Layout rows outside the transcript viewport.
const (
	headerHeight = 1
	inputHeight  = 2 // top border + input line
	statusHeight = 1
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx   context.Context
	ctrl  Controller
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	// Last controller snapshot
	state session.State

	// pending is set from submit until the matching done message, so a
	// second Enter before the first snapshot arrives is not sent.
	pending bool

	// Widgets
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Markdown renderer, rebuilt on resize. Nil when disabled or unavailable.
	renderer *glamour.TermRenderer
	rendered map[string]string

	// Sidebar
	focus       focusArea
	cursor      int
	showSidebar bool

	// Dimensions
	width  int
	height int
	ready  bool

	// Status bar override
	status      string
	statusIsErr bool
}

// New creates the chat view over ctrl. ctx bounds every controller call the
// view makes.
func New(ctx context.Context, ctrl Controller, theme *styles.Theme, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if theme == nil {
		theme = styles.NewTheme("auto")
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message Aura AI..."
	ti.CharLimit = 8192
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Thinking

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		theme:       theme,
		keys:        DefaultKeyMap(),
		opts:        opts,
		state:       ctrl.State(),
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		rendered:    make(map[string]string),
		showSidebar: !opts.HideSidebar,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and restores the previous session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, initCmd(m.ctx, m.ctrl))
}

// State returns the last snapshot the view rendered from.
func (m Model) State() session.State {
	return m.state
}

// =============================================================================
// LAYOUT
// =============================================================================

// sidebarWidth is the sidebar's outer width, or 0 when hidden.
func (m Model) sidebarWidth() int {
	if !m.showSidebar {
		return 0
	}
	return m.theme.SidebarWidth()
}

// layout sizes the widgets from the terminal dimensions.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)

	vpWidth := m.width - m.sidebarWidth()
	if vpWidth < 10 {
		vpWidth = 10
	}
	vpHeight := m.height - headerHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight

	// Container padding (2) + prompt (2) + cursor (1)
	inputWidth := m.width - 5
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.rendered = make(map[string]string)
	m.renderer = nil
	if m.opts.RenderMarkdown {
		wrap := vpWidth - 4
		if wrap < 20 {
			wrap = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.theme.GlamourStyle()),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			m.renderer = r
		}
	}
}

// refreshViewport redraws the transcript. follow scrolls to the bottom;
// otherwise the view only follows when it was already there.
func (m *Model) refreshViewport(follow bool) {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// busy reports whether a send or load is in flight.
func (m Model) busy() bool {
	return m.state.Busy || m.pending
}

// clampCursor keeps the sidebar cursor within the session list.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Sessions) {
		m.cursor = len(m.state.Sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// activeIndex returns the sidebar row of the active session, or -1.
func (m Model) activeIndex() int {
	for i, s := range m.state.Sessions {
		if s.SessionID == m.state.SessionID && s.SessionID != "" {
			return i
		}
	}
	return -1
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsErr = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusIsErr = true
}
