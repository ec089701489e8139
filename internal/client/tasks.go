// ABOUTME: Task model and CRUD operations for the taskdeck API client
// ABOUTME: Validates inputs locally before any network call is attempted

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Priority is the task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank for a priority: high=0, medium=1, low=2.
// A missing or unknown priority ranks as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Valid reports whether p is one of the known priorities or absent
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category is the optional task category
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists the known categories in display order
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

// Valid reports whether c is one of the known categories or absent
func (c Category) Valid() bool {
	switch c {
	case "", CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// Task is a todo item as returned by the backend
type Task struct {
	ID          int        `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Order       int        `json:"order"`
}

// Overdue reports whether the task is incomplete and past its due date
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// TaskInput carries the fields for creating a task
type TaskInput struct {
	Title       string
	Description string
	Category    Category
	Priority    Priority
	DueDate     *time.Time
}

// Validate checks field bounds without touching the network
func (in TaskInput) Validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if len(title) > maxTitleLen {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLen)}
	}
	if len(in.Description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)}
	}
	if !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", in.Priority)}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", in.Category)}
	}
	return nil
}

// createTaskRequest is the wire shape for POST /api/tasks. Optional fields
// cross the boundary as explicit nulls, matching the backend schema.
type createTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Category    *Category  `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskPatch carries a partial update for PUT /api/tasks/{id}. Nil fields
// are omitted and left unchanged server-side. ClearDueDate sends an
// explicit null to remove an existing due date, which omitempty alone
// cannot express.
type TaskPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Order        *int       `json:"order,omitempty"`
	ClearDueDate bool       `json:"-"`
}

// MarshalJSON injects the explicit due_date null when ClearDueDate is set
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	type alias TaskPatch
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if !p.ClearDueDate {
		return data, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["due_date"] = json.RawMessage("null")
	return json.Marshal(fields)
}

// Validate checks the populated fields without touching the network
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return &ValidationError{Field: "title", Message: "title is required"}
		}
		if len(title) > maxTitleLen {
			return &ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLen)}
		}
	}
	if p.Description != nil && len(*p.Description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *p.Priority)}
	}
	if p.Category != nil && !p.Category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", *p.Category)}
	}
	return nil
}

// ListFilter narrows GET /api/tasks server-side
type ListFilter struct {
	Completed *bool
}

// listTasksResponse is the wire shape for GET /api/tasks
type listTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

// ListTasks fetches the authenticated user's tasks
func (c *Client) ListTasks(ctx context.Context, filter *ListFilter) ([]Task, error) {
	path := "/api/tasks"
	if filter != nil && filter.Completed != nil {
		path += "?completed=" + url.QueryEscape(strconv.FormatBool(*filter.Completed))
	}

	var resp listTasksResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTask fetches a single task by id
func (c *Client) GetTask(ctx context.Context, id int) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task. The server assigns id and timestamps.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := createTaskRequest{
		Title:    strings.TrimSpace(in.Title),
		Priority: in.Priority,
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if in.Description != "" {
		desc := in.Description
		req.Description = &desc
	}
	if in.Category != "" {
		cat := in.Category
		req.Category = &cat
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		req.DueDate = &due
	}

	var task Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to an existing task
func (c *Client) UpdateTask(ctx context.Context, id int, patch TaskPatch) (*Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var task Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), patch, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask flips a task's completion status server-side and returns the
// confirmed state
func (c *Client) ToggleTask(ctx context.Context, id int) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/complete", id), nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task. A 204 response resolves to nil.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil, true)
}
