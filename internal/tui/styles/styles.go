// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary = lipgloss.Color("#06B6D4") // Cyan
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Danger  = lipgloss.Color("#EF4444") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray
	Text    = lipgloss.Color("#F9FAFB") // Light

	// Colors - Priority and category accents
	PriorityHigh   = Danger
	PriorityMedium = Warning
	PriorityLow    = Success
	Overdue        = lipgloss.Color("#F87171") // Red-400

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Task rows
	TaskTitle = lipgloss.NewStyle().
			Foreground(Text)

	TaskDone = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	TaskMeta = lipgloss.NewStyle().
			Foreground(Muted)

	TaskOverdue = lipgloss.NewStyle().
			Foreground(Overdue).
			Bold(true)

	SelectedRow = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Status line
	StatusOK = lipgloss.NewStyle().
			Foreground(Success)

	StatusError = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Chat
	ChatUser = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ChatAssistant = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)
)

// ForPriority returns the accent color for a priority value
func ForPriority(priority string) lipgloss.Color {
	switch priority {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}
