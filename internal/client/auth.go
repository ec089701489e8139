// ABOUTME: Authentication operations for the taskdeck API client
// ABOUTME: Register and login flows that establish the persisted session

package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskdeck/taskdeck/internal/session"
)

// AuthResponse is returned by the register and login endpoints
type AuthResponse struct {
	User        session.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and persists the returned session
func (c *Client) Register(ctx context.Context, email, name, password string) (*AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	var resp AuthResponse
	req := registerRequest{Email: strings.TrimSpace(email), Name: strings.TrimSpace(name), Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp, false); err != nil {
		return nil, err
	}

	if err := c.sessions.Establish(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates an existing account and persists the returned session
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var resp AuthResponse
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, false); err != nil {
		return nil, err
	}

	if err := c.sessions.Establish(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout discards the persisted session. Purely local; the backend issues
// stateless tokens.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}
