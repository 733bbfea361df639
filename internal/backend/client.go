// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Aura chat backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/aura-tui/internal/model"
)

// DefaultBaseURL is the loopback address the backend listens on by default.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody bounds how much of a failed response is read for a message.
const maxErrorBody = 4096

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout for a whole request including reading the body (default: 120s).
	// Chat replies are generated synchronously by the backend and can be slow.
	Timeout time.Duration

	// Model is forwarded as the optional "model" field of POST /chat.
	Model string

	// RequestsPerSecond caps outgoing requests (0 = unlimited).
	RequestsPerSecond float64

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client

	// Logger receives debug logs for each request (default: global logger).
	Logger *zerolog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   120 * time.Second,
		UserAgent: "aura-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the chat backend.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := backend.NewClient(nil)
//	sessions, err := client.ListSessions(ctx)
type Client struct {
	config     *ClientConfig
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a backend client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()

	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	c := &Client{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "backend").Logger(),
	}
	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend answers on its root path.
func (c *Client) CheckRunning(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, nil)
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends the full conversation and returns the assistant's reply.
// An empty sessionID is sent as null, asking the backend to start a session.
func (c *Client) Chat(ctx context.Context, conv model.Conversation, sessionID string) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Messages: make([]WireMessage, 0, len(conv)),
		Model:    c.config.Model,
	}
	for _, msg := range conv {
		reqBody.Messages = append(reqBody.Messages, WireMessage{Role: string(msg.Role), Content: msg.Content})
	}
	if sessionID != "" {
		reqBody.SessionID = &sessionID
	}

	var result ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

// ListSessions fetches the backend's session list.
func (c *Client) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	var result []model.SessionSummary
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = []model.SessionSummary{}
	}
	return result, nil
}

// History fetches the ordered messages of one session, projected to
// {role, content}.
func (c *Client) History(ctx context.Context, sessionID string) (model.Conversation, error) {
	if sessionID == "" {
		return nil, &ClientError{Type: ErrTypeRequest, Message: "session id is required"}
	}

	var entries []historyEntry
	if err := c.do(ctx, http.MethodGet, "/history/"+url.PathEscape(sessionID), nil, &entries); err != nil {
		return nil, err
	}

	conv := make(model.Conversation, 0, len(entries))
	for _, e := range entries {
		conv = append(conv, model.NewMessage(model.Role(e.Role), e.Content))
	}
	return conv, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request. body is JSON-encoded when non-nil; a 2xx response
// is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &ClientError{Type: ErrTypeTimeout, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeRequest, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeRequest, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).Msg("request failed")
		return transportError(err, c.baseURL)
	}
	defer drainAndClose(resp.Body)

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError builds an error for a non-2xx response, preferring the
// backend's {"detail": ...} message when present.
func statusError(resp *http.Response) *ClientError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Detail != "" {
		return &ClientError{
			Type:       ErrTypeHTTPStatus,
			Message:    "backend error: " + apiErr.Detail,
			StatusCode: resp.StatusCode,
		}
	}
	return &ClientError{
		Type:       ErrTypeHTTPStatus,
		Message:    "request failed: " + resp.Status,
		StatusCode: resp.StatusCode,
	}
}

// drainAndClose lets the transport reuse the connection.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
