// ABOUTME: Pure derivation of the rendered task list from the raw collection
// ABOUTME: Composes search, category, priority, and status filters with a stable sort

package viewmodel

import (
	"sort"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/client"
)

// Status narrows the list by completion state
type Status int

const (
	StatusAll Status = iota
	StatusActive
	StatusCompleted
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseStatus converts a string to a Status. Empty defaults to all.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "", "all":
		return StatusAll, true
	case "active":
		return StatusActive, true
	case "completed":
		return StatusCompleted, true
	}
	return StatusAll, false
}

// Criteria holds the user-chosen filters. The zero value selects everything.
type Criteria struct {
	Query    string
	Category client.Category
	Priority client.Priority
	Status   Status
}

// Derive computes the filtered, sorted task sequence to render. It never
// mutates the input slice and holds no state across calls; the same
// collection with the same criteria and clock always yields the same output.
//
// Sort cascade, each rule breaking only the ties the previous left:
// overdue-and-incomplete first, then priority rank (missing reads as
// medium), then due-date presence and earliest due date, then createdAt
// newest-first. The sort is stable so otherwise-identical tasks keep their
// input order across repeated renders.
func Derive(tasks []client.Task, c Criteria, now time.Time) []client.Task {
	result := make([]client.Task, 0, len(tasks))

	query := strings.ToLower(strings.TrimSpace(c.Query))
	for _, t := range tasks {
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		if c.Category != "" && t.Category != c.Category {
			continue
		}
		if c.Priority != "" && t.Priority != c.Priority {
			continue
		}
		if c.Status == StatusActive && t.Completed {
			continue
		}
		if c.Status == StatusCompleted && !t.Completed {
			continue
		}
		result = append(result, t)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j], now)
	})
	return result
}

// matchesQuery reports whether the query is a case-insensitive substring of
// the title or description. An absent description never matches.
func matchesQuery(t client.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), query)
}

func less(a, b client.Task, now time.Time) bool {
	aOverdue := a.Overdue(now)
	bOverdue := b.Overdue(now)
	if aOverdue != bOverdue {
		return aOverdue
	}

	aRank := a.Priority.Rank()
	bRank := b.Priority.Rank()
	if aRank != bRank {
		return aRank < bRank
	}

	switch {
	case a.DueDate != nil && b.DueDate != nil:
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
	case a.DueDate != nil:
		return true
	case b.DueDate != nil:
		return false
	}

	return a.CreatedAt.After(b.CreatedAt)
}

// Counts returns the totals shown in the status filter tabs
func Counts(tasks []client.Task) (all, active, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return len(tasks), active, completed
}
