// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation session controller.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/aura-tui/internal/backend"
	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/storage"
)

// Guard errors. They are returned before any state change or network call.
var (
	ErrBusy           = errors.New("a request is already in flight")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrEmptySessionID = errors.New("session id is empty")
)

// Backend is the subset of the backend client the controller calls.
type Backend interface {
	Chat(ctx context.Context, conv model.Conversation, sessionID string) (*backend.ChatResponse, error)
	ListSessions(ctx context.Context) ([]model.SessionSummary, error)
	History(ctx context.Context, sessionID string) (model.Conversation, error)
}

// Observer is called with a fresh snapshot after every state change.
type Observer func(State)

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers fn to receive state snapshots.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller coordinates the conversation, the active session id and the
// remote session list. It is safe for concurrent use.
type Controller struct {
	backend Backend
	store   storage.Store

	mu    sync.Mutex
	state State
	// gen is bumped by NewChat; completions from an older generation only
	// clear the busy flag.
	gen uint64

	// persistMu orders writes to the durable slot against NewChat's delete.
	persistMu sync.Mutex

	notifyMu sync.Mutex
	observer Observer
	logger   zerolog.Logger
}

// NewController creates a controller with an empty conversation and no
// active session. Call Initialize to restore the persisted session.
func NewController(b Backend, store storage.Store, opts ...Option) *Controller {
	c := &Controller{
		backend: b,
		store:   store,
		state: State{
			Conversation: model.Conversation{},
			Sessions:     []model.SessionSummary{},
		},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "session").Logger()
	return c
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Busy reports whether a send or load is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Busy
}

// SessionID returns the active session id ("" when none).
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.SessionID
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Initialize fetches the session list and restores the persisted session,
// concurrently. Both halves are best effort; the first error is returned
// for display only.
func (c *Controller) Initialize(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		return c.RefreshSessionList(ctx)
	})

	g.Go(func() error {
		id, ok, err := c.store.Get(storage.SessionIDKey)
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to read persisted session id")
			return errors.Wrap(err, "read persisted session")
		}
		if !ok || id == "" {
			return nil
		}
		return c.LoadSession(ctx, id)
	})

	return g.Wait()
}

// SendMessage appends text as a user message, sends the conversation to the
// backend and appends the reply. On failure the fixed connection error reply
// is appended and the transport error is returned.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Reduce(c.state, SendStarted{Message: model.NewUserMessage(text)})
	gen := c.gen
	conv := c.state.Conversation.Clone()
	sessionID := c.state.SessionID
	c.mu.Unlock()
	c.notify()

	resp, err := c.backend.Chat(ctx, conv, sessionID)

	c.mu.Lock()
	if gen != c.gen {
		c.state = Reduce(c.state, BusyCleared{})
		c.mu.Unlock()
		c.notify()
		c.logger.Debug().Msg("discarded reply for a reset conversation")
		// The backend still created the session, so the list has grown.
		if err == nil && sessionID == "" && resp.SessionID != "" {
			_ = c.RefreshSessionList(ctx)
		}
		return err
	}
	if err != nil {
		c.state = Reduce(c.state, SendFailed{Reply: model.NewAssistantMessage(ConnectionErrorMessage)})
		c.mu.Unlock()
		c.notify()
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("chat request failed")
		return errors.Wrap(err, "send message")
	}
	c.state = Reduce(c.state, ReplyReceived{
		Reply:     model.NewAssistantMessage(resp.Content),
		SessionID: resp.SessionID,
	})
	adopted := sessionID == "" && c.state.SessionID != ""
	newID := c.state.SessionID
	c.mu.Unlock()
	c.notify()

	if !adopted {
		return nil
	}

	c.logger.Info().Str("session_id", newID).Msg("started new session")
	c.persist(gen, newID)
	// A failed refresh is logged and keeps the old list; the send succeeded.
	_ = c.RefreshSessionList(ctx)
	return nil
}

// LoadSession makes id the active session and replaces the conversation with
// its history. The id is persisted before the history is fetched and stays
// active even when the fetch fails.
func (c *Controller) LoadSession(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptySessionID
	}

	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Reduce(c.state, LoadStarted{SessionID: id})
	gen := c.gen
	c.mu.Unlock()
	c.notify()

	c.persist(gen, id)

	conv, err := c.backend.History(ctx, id)

	c.mu.Lock()
	switch {
	case gen != c.gen:
		c.state = Reduce(c.state, BusyCleared{})
	case err != nil:
		c.state = Reduce(c.state, BusyCleared{})
	default:
		c.state = Reduce(c.state, HistoryLoaded{Conversation: conv})
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Warn().Err(err).Str("session_id", id).Msg("failed to load session history")
		return errors.Wrapf(err, "load session %s", id)
	}
	return nil
}

// NewChat clears the conversation and forgets the active session, including
// its persisted id. The session list is kept. It never calls the backend.
func (c *Controller) NewChat() {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	c.gen++
	c.state = Reduce(c.state, ChatReset{})
	c.mu.Unlock()

	if err := c.store.Delete(storage.SessionIDKey); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear persisted session id")
	}
	c.notify()
}

// RefreshSessionList replaces the session list with the backend's. On
// failure the previous list is kept.
func (c *Controller) RefreshSessionList(ctx context.Context) error {
	sessions, err := c.backend.ListSessions(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to fetch session list")
		return errors.Wrap(err, "refresh session list")
	}

	c.mu.Lock()
	c.state = Reduce(c.state, SessionsReplaced{Sessions: sessions})
	c.mu.Unlock()
	c.notify()
	return nil
}

// =============================================================================
// SIDE EFFECTS
// =============================================================================

// persist writes id to the durable slot unless NewChat has run since gen.
func (c *Controller) persist(gen uint64, id string) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	current := c.gen
	c.mu.Unlock()
	if current != gen {
		return
	}

	if err := c.store.Set(storage.SessionIDKey, id); err != nil {
		c.logger.Warn().Err(err).Str("session_id", id).Msg("failed to persist session id")
	}
}

// notify hands the observer a snapshot taken while holding notifyMu, so
// observers see snapshots in order.
func (c *Controller) notify() {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.observer(c.State())
}
