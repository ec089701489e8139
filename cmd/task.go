// ABOUTME: Task mutation commands for the taskdeck CLI
// ABOUTME: add, edit, done (toggle), and rm operations

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/client"
)

var (
	taskDescription string
	taskCategory    string
	taskPriority    string
	taskDue         string
	taskTitle       string
	taskClearDue    bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdd(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEdit(ctx, os.Stdout, cmd, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDone(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRm(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&taskDescription, "desc", "", "Task description")
		c.Flags().StringVar(&taskCategory, "category", "", "Category: work, personal, shopping, health, other")
		c.Flags().StringVar(&taskPriority, "priority", "", "Priority: high, medium, low")
		c.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	}
	editCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	editCmd.Flags().BoolVar(&taskClearDue, "clear-due", false, "Remove the due date")
}

// parseDue accepts a date or full timestamp
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--due must be YYYY-MM-DD or RFC 3339")
	}
	return &t, nil
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("task id must be a positive integer")
	}
	return id, nil
}

// runAdd executes the add command and returns exit code
func runAdd(ctx context.Context, w io.Writer, title string) int {
	due, err := parseDue(taskDue)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	task, err := c.CreateTask(ctx, client.TaskInput{
		Title:       title,
		Description: taskDescription,
		Category:    client.Category(taskCategory),
		Priority:    client.Priority(taskPriority),
		DueDate:     due,
	})
	if err != nil {
		return reportTaskError(w, err)
	}

	fmt.Fprintf(w, "Created task #%d: %s\n", task.ID, task.Title)
	return 0
}

// runEdit executes the edit command and returns exit code
func runEdit(ctx context.Context, w io.Writer, cmd *cobra.Command, idArg string) int {
	id, err := parseTaskID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var patch client.TaskPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &taskTitle
	}
	if cmd.Flags().Changed("desc") {
		patch.Description = &taskDescription
	}
	if cmd.Flags().Changed("category") {
		cat := client.Category(taskCategory)
		patch.Category = &cat
	}
	if cmd.Flags().Changed("priority") {
		pri := client.Priority(taskPriority)
		patch.Priority = &pri
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDue(taskDue)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		patch.DueDate = due
	}
	patch.ClearDueDate = taskClearDue

	if patch == (client.TaskPatch{}) {
		fmt.Fprintln(w, "Error: nothing to update; pass at least one field flag")
		return 2
	}

	c := newClient()
	task, err := c.UpdateTask(ctx, id, patch)
	if err != nil {
		return reportTaskError(w, err)
	}

	fmt.Fprintf(w, "Updated task #%d: %s\n", task.ID, task.Title)
	return 0
}

// runDone executes the done command and returns exit code
func runDone(ctx context.Context, w io.Writer, idArg string) int {
	id, err := parseTaskID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	task, err := c.ToggleTask(ctx, id)
	if err != nil {
		return reportTaskError(w, err)
	}

	state := "active"
	if task.Completed {
		state = "completed"
	}
	fmt.Fprintf(w, "Task #%d is now %s\n", task.ID, state)
	return 0
}

// runRm executes the rm command and returns exit code
func runRm(ctx context.Context, w io.Writer, idArg string) int {
	id, err := parseTaskID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	if err := c.DeleteTask(ctx, id); err != nil {
		return reportTaskError(w, err)
	}

	fmt.Fprintf(w, "Deleted task #%d\n", id)
	return 0
}

// reportTaskError maps task operation failures to messages and exit codes
func reportTaskError(w io.Writer, err error) int {
	if errors.Is(err, client.ErrUnauthenticated) {
		fmt.Fprintln(w, "Not logged in. Run 'taskdeck login' first.")
		return 1
	}

	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		fmt.Fprintf(w, "Error: %v\n", valErr)
		return 2
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}
