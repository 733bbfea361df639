// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// =============================================================================
// FAKE CONTROLLER
// =============================================================================

type fakeController struct {
	state session.State

	initErr error
	sendErr error
	loadErr error

	sent      []string
	loaded    []string
	newChats  int
	refreshes int
}

func (f *fakeController) State() session.State { return f.state.Clone() }

func (f *fakeController) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeController) SendMessage(ctx context.Context, text string) error {
	f.sent = append(f.sent, text)
	if f.sendErr != nil {
		return f.sendErr
	}
	f.state.Conversation = f.state.Conversation.Append(
		model.NewUserMessage(text),
		model.NewAssistantMessage("reply to "+text),
	)
	return nil
}

func (f *fakeController) LoadSession(ctx context.Context, id string) error {
	f.loaded = append(f.loaded, id)
	if f.loadErr != nil {
		return f.loadErr
	}
	f.state.SessionID = id
	return nil
}

func (f *fakeController) NewChat() {
	f.newChats++
	f.state.Conversation = model.Conversation{}
	f.state.SessionID = ""
}

func (f *fakeController) RefreshSessionList(ctx context.Context) error {
	f.refreshes++
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, ctrl *fakeController) Model {
	t.Helper()
	m := New(context.Background(), ctrl, styles.NewTheme("dark"), Options{})
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// run feeds msg to the model and then feeds back the message produced by the
// returned command, as the program loop would.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return update(t, m, cmd())
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestView_BeforeResize(t *testing.T) {
	m := New(context.Background(), &fakeController{}, styles.NewTheme("dark"), Options{})
	assert.Equal(t, "Starting Aura...", m.View())
}

func TestView_Welcome(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	view := m.View()

	assert.Contains(t, view, "Aura AI")
	assert.Contains(t, view, welcomeTitle)
	assert.Contains(t, view, "Recent Chats")
	assert.Contains(t, view, "No chats yet")
	assert.Equal(t, "Message Aura AI...", m.input.Placeholder)
}

func TestView_TranscriptAndConnectionError(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	m = update(t, m, StateChangedMsg{State: session.State{
		Conversation: model.Conversation{}.Append(
			model.NewUserMessage("Hello"),
			model.NewAssistantMessage(session.ConnectionErrorMessage),
		),
	}})

	content := m.renderTranscript()
	assert.Contains(t, content, "You")
	assert.Contains(t, content, "Hello")
	assert.Contains(t, content, "Aura")
	assert.Contains(t, content, session.ConnectionErrorMessage)
	assert.NotContains(t, content, welcomeTitle)
}

func TestView_ThinkingWhileBusy(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	next, cmd := m.Update(StateChangedMsg{State: session.State{
		Conversation: model.Conversation{}.Append(model.NewUserMessage("Hello")),
		Busy:         true,
	}})
	m = next.(Model)

	assert.NotNil(t, cmd, "busy state should start the spinner")
	assert.Contains(t, m.renderTranscript(), thinkingText)
}

func TestView_SidebarMarksActiveSession(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	m = update(t, m, StateChangedMsg{State: session.State{
		SessionID: "s2",
		Sessions:  []model.SessionSummary{{SessionID: "s1"}, {SessionID: "s2"}},
	}})

	sidebar := m.renderSidebar(m.sidebarWidth(), m.viewport.Height)
	assert.Contains(t, sidebar, "s1")
	assert.Contains(t, sidebar, styles.StatusIndicators.Active+" s2")
	assert.Contains(t, m.renderHeader(), "Session s2")
}

func TestView_NarrowHidesSidebar(t *testing.T) {
	m := New(context.Background(), &fakeController{}, styles.NewTheme("dark"), Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})

	assert.Equal(t, 0, m.sidebarWidth())
	assert.NotContains(t, m.View(), "Recent Chats")
}

// =============================================================================
// INPUT TESTS
// =============================================================================

func TestSubmit_SendsAndClearsInput(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	m = typeText(t, m, "Hello")

	m = run(t, m, keyEnter)

	assert.Equal(t, []string{"Hello"}, ctrl.sent)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.pending)
	require.Len(t, m.State().Conversation, 2)
	assert.Equal(t, "reply to Hello", m.State().Conversation[1].Content)
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	m = typeText(t, m, "   ")

	_, cmd := m.Update(keyEnter)

	assert.Nil(t, cmd)
	assert.Empty(t, ctrl.sent)
}

func TestSubmit_IgnoredWhileBusy(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	m = update(t, m, StateChangedMsg{State: session.State{Busy: true}})
	m = typeText(t, m, "Hello")

	next, cmd := m.Update(keyEnter)
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, ctrl.sent)
	assert.Equal(t, "Hello", m.input.Value(), "input should be kept for later")
}

func TestSubmit_PendingBlocksSecondSend(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	m = typeText(t, m, "one")

	next, cmd := m.Update(keyEnter)
	m = next.(Model)
	require.NotNil(t, cmd)

	m = typeText(t, m, "two")
	_, second := m.Update(keyEnter)
	assert.Nil(t, second)
}

func TestSendDone_ShowsError(t *testing.T) {
	ctrl := &fakeController{sendErr: errors.New("boom")}
	m := newTestModel(t, ctrl)
	m = typeText(t, m, "Hello")

	m = run(t, m, keyEnter)

	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "boom")
}

func TestSendDone_GuardErrorIgnored(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	m = update(t, m, sendDoneMsg{err: session.ErrBusy})

	assert.Empty(t, m.status)
}

func TestInitDone_Error(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	m = update(t, m, initDoneMsg{err: errors.New("down")})

	assert.True(t, m.statusIsErr)
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_LoadSelectedSession(t *testing.T) {
	ctrl := &fakeController{state: session.State{
		Sessions: []model.SessionSummary{{SessionID: "s1"}, {SessionID: "s2"}},
	}}
	m := newTestModel(t, ctrl)

	m = update(t, m, keyTab)
	assert.Equal(t, focusSidebar, m.focus)

	m = update(t, m, keyDown)
	assert.Equal(t, 1, m.cursor)

	m = run(t, m, keyEnter)

	assert.Equal(t, []string{"s2"}, ctrl.loaded)
	assert.Equal(t, focusInput, m.focus)
	assert.Equal(t, "s2", m.State().SessionID)
	assert.False(t, m.statusIsErr)
}

func TestSidebar_CursorStartsOnActiveSession(t *testing.T) {
	ctrl := &fakeController{state: session.State{
		SessionID: "s3",
		Sessions:  []model.SessionSummary{{SessionID: "s1"}, {SessionID: "s2"}, {SessionID: "s3"}},
	}}
	m := newTestModel(t, ctrl)

	m = update(t, m, keyTab)
	assert.Equal(t, 2, m.cursor)

	m = update(t, m, keyDown)
	assert.Equal(t, 2, m.cursor, "cursor should stop at the last row")
}

func TestSidebar_EscReturnsToInput(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	m = update(t, m, keyTab)
	m = update(t, m, keyEsc)

	assert.Equal(t, focusInput, m.focus)
}

func TestSidebar_LoadIgnoredWhileBusy(t *testing.T) {
	ctrl := &fakeController{state: session.State{
		Sessions: []model.SessionSummary{{SessionID: "s1"}},
		Busy:     true,
	}}
	m := newTestModel(t, ctrl)
	m = update(t, m, keyTab)

	_, cmd := m.Update(keyEnter)

	assert.Nil(t, cmd)
	assert.Empty(t, ctrl.loaded)
}

func TestSidebar_LoadFailure(t *testing.T) {
	ctrl := &fakeController{
		state:   session.State{Sessions: []model.SessionSummary{{SessionID: "s1"}}},
		loadErr: errors.New("offline"),
	}
	m := newTestModel(t, ctrl)
	m = update(t, m, keyTab)

	m = run(t, m, keyEnter)

	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "s1")
}

func TestToggleSidebar(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	width := m.viewport.Width

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, 0, m.sidebarWidth())
	assert.Greater(t, m.viewport.Width, width)
}

// =============================================================================
// GLOBAL KEY TESTS
// =============================================================================

func TestNewChatKey(t *testing.T) {
	ctrl := &fakeController{state: session.State{
		SessionID:    "s1",
		Conversation: model.Conversation{}.Append(model.NewUserMessage("hi")),
	}}
	m := newTestModel(t, ctrl)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.Equal(t, 1, ctrl.newChats)
	assert.Empty(t, m.State().SessionID)
	assert.True(t, m.State().Conversation.IsEmpty())
}

func TestRefreshKey(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, 1, ctrl.refreshes)
	assert.Equal(t, "Chats refreshed", m.status)
}

func TestCopyReply(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { copyToClipboard = orig }()

	ctrl := &fakeController{state: session.State{
		Conversation: model.Conversation{}.Append(
			model.NewUserMessage("q"),
			model.NewAssistantMessage("answer"),
		),
	}}
	m := newTestModel(t, ctrl)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})

	assert.Equal(t, "answer", copied)
	assert.Equal(t, "Copied last reply", m.status)
}

func TestCopyReply_NothingToCopy(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.statusIsErr)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestForward(t *testing.T) {
	var got tea.Msg
	observer := Forward(func(msg tea.Msg) { got = msg })

	observer(session.State{SessionID: "s1"})

	require.IsType(t, StateChangedMsg{}, got)
	assert.Equal(t, "s1", got.(StateChangedMsg).State.SessionID)
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		n, cursor, avail int
		start, end       int
	}{
		{3, 0, 10, 0, 3},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.n, tt.cursor, tt.avail)
		assert.Equal(t, tt.start, start, "n=%d cursor=%d", tt.n, tt.cursor)
		assert.Equal(t, tt.end, end, "n=%d cursor=%d", tt.n, tt.cursor)
	}
}
