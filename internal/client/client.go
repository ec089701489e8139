// ABOUTME: HTTP client for the taskdeck backend API
// ABOUTME: Wraps API calls with session-gated auth and typed error handling

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/session"
)

// Client is the API client for the taskdeck backend
type Client struct {
	baseURL          string
	httpClient       *http.Client
	sessions         *session.Store
	onSessionInvalid func()
}

// New creates a new API client with the given base URL and session store
func New(baseURL string, sessions *session.Store) *Client {
	return &Client{
		baseURL:  baseURL,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// OnSessionInvalidated registers a hook fired when the server rejects the
// session. The surrounding shell decides what "go log in again" means; the
// client only clears the persisted session and emits this event.
func (c *Client) OnSessionInvalidated(fn func()) {
	c.onSessionInvalid = fn
}

// detailResponse is the backend's error body shape
type detailResponse struct {
	Detail string `json:"detail"`
}

// do performs a JSON request against the backend. When authed is true the
// call requires an active session: a missing token fails with
// ErrUnauthenticated before any network I/O, and a server 401 clears the
// session, fires the invalidation hook, and also fails with
// ErrUnauthenticated. out may be nil for empty responses.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		sess, err := c.sessions.Load()
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if sess == nil {
			return ErrUnauthenticated
		}
		token = sess.Token
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.sessions.Clear()
		if c.onSessionInvalid != nil {
			c.onSessionInvalid()
		}
		return ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	// 204 No Content and other empty successes resolve without a body
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return &NetworkError{Err: fmt.Errorf("request canceled")}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &NetworkError{Err: fmt.Errorf("request timed out")}
	}
	return &NetworkError{Err: fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)}
}

// handleErrorResponse parses API error responses into a typed APIError
func (c *Client) handleErrorResponse(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	var detail detailResponse
	if err := json.Unmarshal(raw, &detail); err != nil || detail.Detail == "" {
		return &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("backend returned status %d", resp.StatusCode),
			Details: raw,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: detail.Detail, Details: raw}
}
