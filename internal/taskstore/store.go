// ABOUTME: Mutation coordinator owning the in-memory task collection
// ABOUTME: Applies server-confirmed mutations and guards per-task toggles in flight

package taskstore

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/taskdeck/taskdeck/internal/client"
)

// API is the slice of the backend client the store needs. Narrowed to an
// interface so tests can substitute mocks.
type API interface {
	ListTasks(ctx context.Context, filter *client.ListFilter) ([]client.Task, error)
	CreateTask(ctx context.Context, in client.TaskInput) (*client.Task, error)
	UpdateTask(ctx context.Context, id int, patch client.TaskPatch) (*client.Task, error)
	ToggleTask(ctx context.Context, id int) (*client.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// Store is the single in-memory owner of task state for the active session.
// Every mutation is confirm-then-apply: the collection changes only after
// the server acknowledges, so a failed request leaves it untouched.
type Store struct {
	api API

	mu       sync.Mutex
	tasks    []client.Task
	inFlight map[int]bool

	// toggles collapses concurrent toggle requests for the same task id
	// into one network call; late callers share the first result.
	toggles singleflight.Group
}

// New creates a store over the given API client
func New(api API) *Store {
	return &Store{api: api, inFlight: make(map[int]bool)}
}

// Refresh replaces the collection with the server's current task list
func (s *Store) Refresh(ctx context.Context, filter *client.ListFilter) error {
	tasks, err := s.api.ListTasks(ctx, filter)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns a snapshot of the collection. The caller may filter and
// sort it freely without affecting the store.
func (s *Store) Tasks() []client.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks in the collection
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Create asks the server to create a task and prepends the confirmed task
// to the collection. Newest-first insertion governs the default order of
// equally-ranked tasks. Errors leave the collection unchanged and propagate
// to the caller for inline display.
func (s *Store) Create(ctx context.Context, in client.TaskInput) (*client.Task, error) {
	task, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append([]client.Task{*task}, s.tasks...)
	s.mu.Unlock()
	return task, nil
}

// Update applies a partial update and replaces the matching task by id once
// the server confirms. Errors leave the collection unchanged and propagate.
func (s *Store) Update(ctx context.Context, id int, patch client.TaskPatch) (*client.Task, error) {
	task, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.replace(*task)
	return task, nil
}

// Toggle flips a task's completion state. Despite the optimistic-sounding
// name this is confirm-then-apply: the collection only changes once the
// server responds. A second toggle for the same id while one is in flight
// makes no network call of its own; it resolves with the first call's
// result via the per-id guard.
func (s *Store) Toggle(ctx context.Context, id int) (*client.Task, error) {
	v, err, _ := s.toggles.Do(strconv.Itoa(id), func() (any, error) {
		s.setInFlight(id, true)
		defer s.setInFlight(id, false)

		task, err := s.api.ToggleTask(ctx, id)
		if err != nil {
			return nil, err
		}
		s.replace(*task)
		return task, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*client.Task), nil
}

// ToggleInFlight reports whether a toggle for the given id is outstanding.
// The UI disables the toggle control while this is true.
func (s *Store) ToggleInFlight(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[id]
}

func (s *Store) setInFlight(id int, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.inFlight[id] = true
	} else {
		delete(s.inFlight, id)
	}
}

// Delete removes a task from the collection only after the server confirms
// the deletion. On failure the collection is unchanged; the caller surfaces
// the error as a non-fatal notification and the list stays intact.
func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// replace swaps the stored task with the same id for the confirmed one. At
// most one task per id ever exists in the collection.
func (s *Store) replace(task client.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}
