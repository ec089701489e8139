// ABOUTME: List command for the taskdeck CLI
// ABOUTME: Renders the filtered, sorted task list in human or JSON form

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/client"
	"github.com/taskdeck/taskdeck/internal/viewmodel"
)

var (
	listStatus   string
	listCategory string
	listPriority string
	listSearch   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filters.

Tasks sort overdue-first, then by priority, due date, and creation time.

Exit codes:
  0 - Success
  1 - Not logged in
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listStatus, "status", "all", "Filter by status: all, active, completed")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category: work, personal, shopping, health, other")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority: high, medium, low")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Search in title and description")
}

// buildCriteria validates the list flags into view-model criteria
func buildCriteria() (viewmodel.Criteria, error) {
	status, ok := viewmodel.ParseStatus(listStatus)
	if !ok {
		return viewmodel.Criteria{}, fmt.Errorf("--status must be all, active, or completed")
	}

	category := client.Category(listCategory)
	if !category.Valid() {
		return viewmodel.Criteria{}, fmt.Errorf("--category must be one of work, personal, shopping, health, other")
	}

	priority := client.Priority(listPriority)
	if !priority.Valid() {
		return viewmodel.Criteria{}, fmt.Errorf("--priority must be high, medium, or low")
	}

	return viewmodel.Criteria{
		Query:    listSearch,
		Category: category,
		Priority: priority,
		Status:   status,
	}, nil
}

// runList executes the list command and returns exit code
func runList(ctx context.Context, w io.Writer) int {
	criteria, err := buildCriteria()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	tasks, err := c.ListTasks(ctx, nil)
	if err != nil {
		if errors.Is(err, client.ErrUnauthenticated) {
			fmt.Fprintln(w, "Not logged in. Run 'taskdeck login' first.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	view := viewmodel.Derive(tasks, criteria, time.Now())

	if IsJSONOutput() {
		fmt.Fprintln(w, formatListJSON(view))
	} else {
		fmt.Fprintln(w, formatListHuman(tasks, view))
	}
	return 0
}

// formatListHuman formats the task list for terminal display
func formatListHuman(all, view []client.Task) string {
	total, active, completed := viewmodel.Counts(all)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks (%d active, %d completed)\n", total, active, completed)

	if len(view) == 0 {
		sb.WriteString("No tasks match the current filters.")
		return sb.String()
	}

	now := time.Now()
	for _, t := range view {
		sb.WriteString(formatTaskLine(t, now))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatTaskLine renders one task as a single line
func formatTaskLine(t client.Task, now time.Time) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	var meta []string
	if t.Priority != "" {
		meta = append(meta, string(t.Priority))
	}
	if t.Category != "" {
		meta = append(meta, string(t.Category))
	}
	if t.DueDate != nil {
		due := t.DueDate.Local().Format("2006-01-02")
		if t.Overdue(now) {
			due += " OVERDUE"
		}
		meta = append(meta, "due "+due)
	}

	line := fmt.Sprintf("%s #%-4d %s", box, t.ID, t.Title)
	if len(meta) > 0 {
		line += "  (" + strings.Join(meta, ", ") + ")"
	}
	return line
}

// formatListJSON formats the derived task list as JSON
func formatListJSON(view []client.Task) string {
	data, _ := json.MarshalIndent(view, "", "  ")
	return string(data)
}
