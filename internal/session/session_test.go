// ABOUTME: Tests for the persistent session store
// ABOUTME: Covers round-trips, partial-session repair, and corrupt records

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testUser() User {
	return User{
		ID:        "9b2f1c3a-7d4e-4f0a-8b1d-2c3e4f5a6b7c",
		Email:     "amy@example.com",
		Name:      "Amy",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEstablishThenLoad(t *testing.T) {
	s := New(t.TempDir())

	user := testUser()
	if err := s.Establish("tok-abc123", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.Token != "tok-abc123" {
		t.Errorf("expected token tok-abc123, got %s", sess.Token)
	}
	if sess.User != user {
		t.Errorf("expected user %+v, got %+v", user, sess.User)
	}
}

func TestLoad_NoSession(t *testing.T) {
	s := New(t.TempDir())

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestClearThenLoad(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Establish("tok", testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session after clear, got %+v", sess)
	}
}

func TestClear_NothingPersisted(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Clear(); err != nil {
		t.Errorf("expected clear of empty store to succeed, got %v", err)
	}
}

func TestLoad_TokenWithoutUser_RepairsStore(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("orphan-token"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session for partial state, got %+v", sess)
	}

	// The orphaned token must be gone so the next load starts clean.
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("expected token file to be removed after repair")
	}
}

func TestLoad_CorruptUserRecord_RepairsStore(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session for corrupt user record, got %+v", sess)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("expected token file to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "user.json")); !os.IsNotExist(err) {
		t.Error("expected user file to be removed")
	}
}

func TestLoad_UserRecordMissingID_ReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte(`{"email":"a@b.c"}`), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestIsAuthenticated(t *testing.T) {
	s := New(t.TempDir())

	if s.IsAuthenticated() {
		t.Error("expected unauthenticated before establish")
	}
	if err := s.Establish("tok", testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated after establish")
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("expected unauthenticated after clear")
	}
}

func TestDefaultConfigDir_XDGOverride(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir := DefaultConfigDir()
	if dir != filepath.Join("/tmp/xdg-test", "taskdeck") {
		t.Errorf("expected XDG-based dir, got %s", dir)
	}
}

func TestDefaultConfigDir_ExplicitOverride(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", "/tmp/deck-config")

	if dir := DefaultConfigDir(); dir != "/tmp/deck-config" {
		t.Errorf("expected explicit override, got %s", dir)
	}
}
