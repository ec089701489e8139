// ABOUTME: Tests for the taskdeck API client session gating and error handling
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.New(t.TempDir())
}

func newAuthedClient(t *testing.T, baseURL string) (*Client, *session.Store) {
	t.Helper()
	store := newTestStore(t)
	user := session.User{ID: "u-1", Email: "amy@example.com", Name: "Amy", CreatedAt: time.Now().UTC()}
	if err := store.Establish("test-token", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(baseURL, store), store
}

func TestListTasks_RequiresSessionBeforeNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.ListTasks(context.Background(), nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no network call without a session, got %d", calls)
	}
}

func TestListTasks_BearerTokenSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if r.URL.Path != "/api/tasks" {
			t.Errorf("expected path /api/tasks, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"tasks": []Task{}, "total": 0})
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	if _, err := c.ListTasks(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListTasks_CompletedFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("completed"); got != "true" {
			t.Errorf("expected completed=true, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"tasks": []Task{}, "total": 0})
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	completed := true
	if _, err := c.ListTasks(context.Background(), &ListFilter{Completed: &completed}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnauthorizedResponse_ClearsSessionAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	c, store := newAuthedClient(t, server.URL)
	invalidated := false
	c.OnSessionInvalidated(func() { invalidated = true })

	_, err := c.ListTasks(context.Background(), nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if !invalidated {
		t.Error("expected session-invalidated hook to fire")
	}
	if store.IsAuthenticated() {
		t.Error("expected session to be cleared after 401")
	}
}

func TestAPIError_ParsesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Task not found"})
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	_, err := c.GetTask(context.Background(), 42)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
	if apiErr.Message != "Task not found" {
		t.Errorf("expected detail message, got %q", apiErr.Message)
	}
}

func TestAPIError_UnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	_, err := c.GetTask(context.Background(), 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", apiErr.Status)
	}
}

func TestNetworkError_ConnectionRefused(t *testing.T) {
	store := newTestStore(t)
	user := session.User{ID: "u-1", Email: "a@b.c", Name: "A"}
	if err := store.Establish("tok", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := New("http://127.0.0.1:1", store)
	_, err := c.ListTasks(context.Background(), nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if store.IsAuthenticated() != true {
		t.Error("transport failure must not clear the session")
	}
}

func TestNetworkError_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.ListTasks(ctx, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError for canceled context, got %v", err)
	}
}

func TestLogin_EstablishesSession(t *testing.T) {
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("expected path /api/auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "amy@example.com" {
			t.Errorf("expected email in body, got %q", req["email"])
		}
		json.NewEncoder(w).Encode(AuthResponse{
			User:        session.User{ID: "u-1", Email: "amy@example.com", Name: "Amy", CreatedAt: created},
			AccessToken: "new-token",
			TokenType:   "bearer",
		})
	}))
	defer server.Close()

	store := newTestStore(t)
	c := New(server.URL, store)
	resp, err := c.Login(context.Background(), "amy@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken != "new-token" {
		t.Errorf("expected access token, got %q", resp.AccessToken)
	}

	sess, err := store.Load()
	if err != nil || sess == nil {
		t.Fatalf("expected persisted session, got %v, %v", sess, err)
	}
	if sess.Token != "new-token" || sess.User.ID != "u-1" {
		t.Errorf("unexpected persisted session: %+v", sess)
	}
}

func TestLogin_RejectsBlankCredentialsLocally(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Login(context.Background(), "not-an-email", "")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("validation failures must not reach the network, got %d calls", calls)
	}
}

func TestRegister_EstablishesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("expected path /api/auth/register, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			User:        session.User{ID: "u-2", Email: "bo@example.com", Name: "Bo"},
			AccessToken: "reg-token",
			TokenType:   "bearer",
		})
	}))
	defer server.Close()

	store := newTestStore(t)
	c := New(server.URL, store)
	if _, err := c.Register(context.Background(), "bo@example.com", "Bo", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("expected session after registration")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	c, store := newAuthedClient(t, "http://unused")
	if err := c.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("expected session cleared after logout")
	}
}

func TestChat_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected path /api/chat, got %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["message"] != "add a task to buy milk" {
			t.Errorf("unexpected message: %q", req["message"])
		}
		if req["conversation_id"] != "conv-1" {
			t.Errorf("expected conversation id echoed, got %q", req["conversation_id"])
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "Done!", ConversationID: "conv-1"})
	}))
	defer server.Close()

	c, _ := newAuthedClient(t, server.URL)
	resp, err := c.Chat(context.Background(), "add a task to buy milk", "conv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Response != "Done!" {
		t.Errorf("unexpected response: %q", resp.Response)
	}
}

func TestChat_BlankMessageRejectedLocally(t *testing.T) {
	c, _ := newAuthedClient(t, "http://unused")
	_, err := c.Chat(context.Background(), "   ", "")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
