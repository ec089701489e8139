// ABOUTME: Icon set for task priorities, categories, and completion state
// ABOUTME: Unicode-only to stay portable across terminal fonts

package icons

import "github.com/taskdeck/taskdeck/internal/client"

const (
	CheckboxDone    = "[x]"
	CheckboxOpen    = "[ ]"
	CheckboxPending = "[~]" // toggle request in flight
	OverdueMarker   = "!"
)

// Priority returns the marker for a priority level
func Priority(p client.Priority) string {
	switch p {
	case client.PriorityHigh:
		return "●"
	case client.PriorityLow:
		return "○"
	default:
		return "◐"
	}
}

// Category returns the marker for a category
func Category(c client.Category) string {
	switch c {
	case client.CategoryWork:
		return "⚒"
	case client.CategoryPersonal:
		return "♟"
	case client.CategoryShopping:
		return "¤"
	case client.CategoryHealth:
		return "♥"
	case client.CategoryOther:
		return "◆"
	default:
		return ""
	}
}
