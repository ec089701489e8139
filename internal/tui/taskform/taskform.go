// ABOUTME: Create/edit task form as a bubbletea model
// ABOUTME: Collects title, description, category, priority, and due date via huh

package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/taskdeck/taskdeck/internal/client"
	"github.com/taskdeck/taskdeck/internal/tui/styles"
)

// SubmitMsg is sent when the form completes. TaskID is zero for new tasks.
type SubmitMsg struct {
	TaskID int
	Input  client.TaskInput
	Patch  client.TaskPatch
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

const dueLayout = "2006-01-02"

// Form manages task creation and editing as a bubbletea model
type Form struct {
	form   *huh.Form
	taskID int

	title       string
	description string
	category    string
	priority    string
	due         string
}

// NewCreate builds an empty form for a new task
func NewCreate() *Form {
	f := &Form{priority: string(client.PriorityMedium)}
	f.form = f.createForm("New task")
	return f
}

// NewEdit builds a form pre-filled from an existing task
func NewEdit(task client.Task) *Form {
	f := &Form{
		taskID:      task.ID,
		title:       task.Title,
		description: task.Description,
		category:    string(task.Category),
		priority:    string(task.Priority),
	}
	if f.priority == "" {
		f.priority = string(client.PriorityMedium)
	}
	if task.DueDate != nil {
		f.due = task.DueDate.Local().Format(dueLayout)
	}
	f.form = f.createForm(fmt.Sprintf("Edit task #%d", task.ID))
	return f
}

func (f *Form) createForm(heading string) *huh.Form {
	categoryOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range client.Categories {
		categoryOpts = append(categoryOpts, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					if len(strings.TrimSpace(s)) > 200 {
						return fmt.Errorf("title must be at most 200 characters")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Lines(3).
				CharLimit(1000).
				Value(&f.description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&f.category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("high", string(client.PriorityHigh)),
					huh.NewOption("medium", string(client.PriorityMedium)),
					huh.NewOption("low", string(client.PriorityLow)),
				).
				Value(&f.priority),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD, blank for none").
				Value(&f.due).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.ParseInLocation(dueLayout, strings.TrimSpace(s), time.Local); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		).Title(heading),
	).WithTheme(huh.ThemeBase())
}

// Editing reports whether the form targets an existing task
func (f *Form) Editing() bool {
	return f.taskID != 0
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		f.form = m
	}

	if f.form.State == huh.StateCompleted {
		submit := f.buildSubmit()
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

func (f *Form) buildSubmit() SubmitMsg {
	title := strings.TrimSpace(f.title)
	due := f.parseDue()

	if f.taskID == 0 {
		return SubmitMsg{Input: client.TaskInput{
			Title:       title,
			Description: f.description,
			Category:    client.Category(f.category),
			Priority:    client.Priority(f.priority),
			DueDate:     due,
		}}
	}

	description := f.description
	category := client.Category(f.category)
	priority := client.Priority(f.priority)
	patch := client.TaskPatch{
		Title:       &title,
		Description: &description,
		Category:    &category,
		Priority:    &priority,
	}
	if due != nil {
		patch.DueDate = due
	} else {
		patch.ClearDueDate = true
	}
	return SubmitMsg{TaskID: f.taskID, Patch: patch}
}

func (f *Form) parseDue() *time.Time {
	s := strings.TrimSpace(f.due)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(dueLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(f.form.View())
	sb.WriteString(styles.Help.Render("esc to cancel"))
	return sb.String()
}
