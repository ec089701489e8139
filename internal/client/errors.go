// ABOUTME: Typed error taxonomy for the task API client
// ABOUTME: Distinguishes auth, validation, server, and transport failures

package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when no local token is present (before any
// network call) or when the server rejects the session with a 401. In the
// 401 case the session store has already been cleared by the time the
// caller sees this error.
var ErrUnauthenticated = errors.New("not authenticated")

// APIError is a server-rejected request (non-401). Recoverable; no state
// mutation accompanies it.
type APIError struct {
	Status  int
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure: the request never produced a
// response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is raised locally before any network call when input
// fields are missing or out of bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsUnauthenticated reports whether err is the unauthenticated condition
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
