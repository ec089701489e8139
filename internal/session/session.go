// ABOUTME: Persistent session store for authentication token and user identity
// ABOUTME: Stores session files in the XDG config directory

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// User is the authenticated user identity returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the pair of auth token and user identity. A session is only
// valid when both are present; a partial session reads as absent.
type Session struct {
	Token string
	User  User
}

// Store persists the session under two well-known files in a config
// directory: "token" holds the opaque token, "user.json" the user record.
type Store struct {
	configDir string
}

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// New creates a session store rooted at the given config directory
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following the XDG convention
func DefaultConfigDir() string {
	if dir := os.Getenv("TASKDECK_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskdeck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskdeck")
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.configDir, tokenFile)
}

func (s *Store) userPath() string {
	return filepath.Join(s.configDir, userFile)
}

// Load reads the persisted session. It returns nil when no session is
// persisted. A token without a parseable user record is an invalid partial
// session: both files are cleared and Load returns nil. Corruption is never
// an error; it reads as "not authenticated".
func (s *Store) Load() (*Session, error) {
	tokenBytes, err := os.ReadFile(s.tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return nil, s.Clear()
	}

	userBytes, err := os.ReadFile(s.userPath())
	if err != nil {
		// Token present, user record absent or unreadable: repair by
		// clearing both so the caller re-authenticates.
		return nil, s.Clear()
	}

	var user User
	if err := json.Unmarshal(userBytes, &user); err != nil || user.ID == "" {
		return nil, s.Clear()
	}

	return &Session{Token: token, User: user}, nil
}

// Establish persists the token and user record. Both files are written, user
// record first, so a crash mid-write leaves at worst a repairable partial
// session rather than a token-less user.
func (s *Store) Establish(token string, user User) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.userPath(), userBytes, 0600); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), []byte(token), 0600)
}

// Clear removes both session files. Missing files are not an error.
func (s *Store) Clear() error {
	tokenErr := os.Remove(s.tokenPath())
	userErr := os.Remove(s.userPath())
	if tokenErr != nil && !errors.Is(tokenErr, os.ErrNotExist) {
		return tokenErr
	}
	if userErr != nil && !errors.Is(userErr, os.ErrNotExist) {
		return userErr
	}
	return nil
}

// IsAuthenticated reports whether a complete session is persisted
func (s *Store) IsAuthenticated() bool {
	sess, err := s.Load()
	return err == nil && sess != nil
}
