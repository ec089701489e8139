// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/client"
	"github.com/taskdeck/taskdeck/internal/debuglog"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/taskstore"
	"github.com/taskdeck/taskdeck/internal/tui/authform"
	"github.com/taskdeck/taskdeck/internal/tui/chat"
	"github.com/taskdeck/taskdeck/internal/tui/icons"
	"github.com/taskdeck/taskdeck/internal/tui/styles"
	"github.com/taskdeck/taskdeck/internal/tui/taskform"
	"github.com/taskdeck/taskdeck/internal/viewmodel"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenTasks
	ScreenForm
	ScreenChat
)

// Layout constants
const (
	headerLines = 4 // Title, counts, filter line, blank
	footerLines = 3 // Status line, help, blank
)

// sessionInvalidatedMsg is sent when the client reports a rejected token
type sessionInvalidatedMsg struct{}

// tasksLoadedMsg is sent when the task list has been refreshed
type tasksLoadedMsg struct {
	err error
}

// authDoneMsg is sent when a login or register attempt completes
type authDoneMsg struct {
	err error
}

// taskSavedMsg is sent when a create or update completes
type taskSavedMsg struct {
	task *client.Task
	err  error
}

// taskToggledMsg is sent when a completion toggle completes
type taskToggledMsg struct {
	id  int
	err error
}

// taskDeletedMsg is sent when a delete completes
type taskDeletedMsg struct {
	id  int
	err error
}

// App is the root model for the TUI
type App struct {
	client   *client.Client
	sessions *session.Store
	store    *taskstore.Store

	screen Screen
	width  int
	height int

	criteria viewmodel.Criteria
	visible  []client.Task
	cursor   int

	search    textinput.Model
	searching bool

	confirmingDelete bool
	loading          bool
	spinner          spinner.Model
	status           string
	statusErr        bool

	// Child models
	auth       *authform.Form
	form       *taskform.Form
	chatScreen *chat.Model
}

// New creates a new TUI application
func New(apiClient *client.Client, sessions *session.Store) *App {
	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		client:   apiClient,
		sessions: sessions,
		store:    taskstore.New(apiClient),
		search:   search,
		spinner:  sp,
	}

	if sessions.IsAuthenticated() {
		a.screen = ScreenTasks
		a.loading = true
	} else {
		a.screen = ScreenAuth
		a.auth = authform.New()
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenAuth {
		return a.auth.Init()
	}
	return tea.Batch(a.spinner.Tick, a.refreshTasks())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to child models
		if a.auth != nil {
			a.auth.Update(msg)
		}
		if a.chatScreen != nil {
			a.chatScreen.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenAuth:
			return a.updateAuth(msg)
		case ScreenTasks:
			return a.updateTasks(msg)
		case ScreenForm:
			return a.updateForm(msg)
		case ScreenChat:
			return a.updateChat(msg)
		}

	case authform.SubmitMsg:
		a.loading = true
		a.setStatus("", false)
		return a, tea.Batch(a.spinner.Tick, a.authenticate(msg))

	case authform.CancelledMsg:
		return a, tea.Quit

	case authDoneMsg:
		a.loading = false
		if msg.err != nil {
			a.setStatus(errorText(msg.err), true)
			return a, a.auth.Reset()
		}
		a.screen = ScreenTasks
		a.auth = nil
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.refreshTasks())

	case taskform.SubmitMsg:
		a.screen = ScreenTasks
		a.form = nil
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.saveTask(msg))

	case taskform.CancelledMsg:
		a.screen = ScreenTasks
		a.form = nil
		return a, nil

	case chat.SubmitMsg:
		return a, a.sendChat(msg)

	case chat.CancelledMsg:
		a.screen = ScreenTasks
		a.chatScreen = nil
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.refreshTasks())

	case chat.ReplyMsg:
		if client.IsUnauthenticated(msg.Err) {
			return a.sessionExpired()
		}
		return a.updateChat(msg)

	case sessionInvalidatedMsg:
		if a.screen == ScreenAuth {
			return a, nil
		}
		return a.sessionExpired()

	case tasksLoadedMsg:
		a.loading = false
		if msg.err != nil {
			debuglog.Error("refresh", msg.err)
			if client.IsUnauthenticated(msg.err) {
				return a.sessionExpired()
			}
			a.setStatus(errorText(msg.err), true)
			return a, nil
		}
		a.setStatus("", false)
		a.applyCriteria()
		return a, nil

	case taskSavedMsg:
		a.loading = false
		if msg.err != nil {
			if client.IsUnauthenticated(msg.err) {
				return a.sessionExpired()
			}
			a.setStatus(errorText(msg.err), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Saved #%d %s", msg.task.ID, msg.task.Title), false)
		a.applyCriteria()
		return a, nil

	case taskToggledMsg:
		if msg.err != nil {
			debuglog.Error("toggle", msg.err)
			if client.IsUnauthenticated(msg.err) {
				return a.sessionExpired()
			}
			a.setStatus(errorText(msg.err), true)
			return a, nil
		}
		a.applyCriteria()
		return a, nil

	case taskDeletedMsg:
		if msg.err != nil {
			if client.IsUnauthenticated(msg.err) {
				return a.sessionExpired()
			}
			a.setStatus(errorText(msg.err), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Deleted #%d", msg.id), false)
		a.applyCriteria()
		return a, nil

	case spinner.TickMsg:
		if a.screen == ScreenChat && a.chatScreen != nil {
			return a.updateChat(msg)
		}
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	default:
		// Forward unknown messages to the active form (needed for huh internals)
		switch a.screen {
		case ScreenAuth:
			return a.updateAuth(msg)
		case ScreenForm:
			return a.updateForm(msg)
		case ScreenChat:
			return a.updateChat(msg)
		}
	}

	return a, nil
}

func (a *App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.auth == nil {
		return a, nil
	}
	model, cmd := a.auth.Update(msg)
	a.auth = model.(*authform.Form)
	return a, cmd
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model.(*taskform.Form)
	return a, cmd
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.chatScreen == nil {
		return a, nil
	}
	model, cmd := a.chatScreen.Update(msg)
	a.chatScreen = model.(*chat.Model)
	return a, cmd
}

func (a *App) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search entry has its own key handling
	if a.searching {
		return a.updateSearch(msg)
	}

	// A pending delete only accepts confirmation
	if a.confirmingDelete {
		a.confirmingDelete = false
		if msg.String() == "y" {
			return a.deleteSelected()
		}
		a.setStatus("", false)
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "j", "down":
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}
		return a, nil

	case " ", "x":
		return a.toggleSelected()

	case "a":
		a.form = taskform.NewCreate()
		a.screen = ScreenForm
		return a, a.form.Init()

	case "e":
		if task, ok := a.selected(); ok {
			a.form = taskform.NewEdit(task)
			a.screen = ScreenForm
			return a, a.form.Init()
		}
		return a, nil

	case "d":
		if _, ok := a.selected(); ok {
			a.confirmingDelete = true
			a.setStatus("Delete this task? (y/n)", false)
		}
		return a, nil

	case "/":
		a.searching = true
		a.search.SetValue(a.criteria.Query)
		a.search.Focus()
		return a, textinput.Blink

	case "f":
		a.criteria.Status = nextStatus(a.criteria.Status)
		a.applyCriteria()
		return a, nil

	case "c":
		a.criteria.Category = nextCategory(a.criteria.Category)
		a.applyCriteria()
		return a, nil

	case "p":
		a.criteria.Priority = nextPriority(a.criteria.Priority)
		a.applyCriteria()
		return a, nil

	case "esc":
		a.criteria = viewmodel.Criteria{}
		a.applyCriteria()
		return a, nil

	case "r":
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.refreshTasks())

	case "C":
		a.chatScreen = chat.New()
		a.screen = ScreenChat
		a.chatScreen.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.chatScreen.Init()

	case "L":
		if err := a.client.Logout(); err != nil {
			a.setStatus(errorText(err), true)
			return a, nil
		}
		a.screen = ScreenAuth
		a.auth = authform.New()
		a.setStatus("", false)
		return a, a.auth.Init()
	}

	return a, nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.searching = false
		a.search.Blur()
		if msg.String() == "esc" {
			a.search.SetValue(a.criteria.Query)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.criteria.Query = a.search.Value()
	a.applyCriteria()
	return a, cmd
}

// selected returns the task under the cursor
func (a *App) selected() (client.Task, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return client.Task{}, false
	}
	return a.visible[a.cursor], true
}

// applyCriteria recomputes the visible list from the store snapshot
func (a *App) applyCriteria() {
	a.visible = viewmodel.Derive(a.store.Tasks(), a.criteria, time.Now())
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// sessionExpired drops back to the auth screen after a rejected token
func (a *App) sessionExpired() (tea.Model, tea.Cmd) {
	debuglog.Log("session invalidated, returning to auth screen")
	a.loading = false
	a.screen = ScreenAuth
	a.auth = authform.New()
	a.chatScreen = nil
	a.form = nil
	a.setStatus("Session expired, please log in again", true)
	return a, a.auth.Init()
}

func (a *App) toggleSelected() (tea.Model, tea.Cmd) {
	task, ok := a.selected()
	if !ok {
		return a, nil
	}
	if a.store.ToggleInFlight(task.ID) {
		return a, nil
	}
	id := task.ID
	return a, func() tea.Msg {
		_, err := a.store.Toggle(context.Background(), id)
		return taskToggledMsg{id: id, err: err}
	}
}

func (a *App) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := a.selected()
	if !ok {
		return a, nil
	}
	a.setStatus("", false)
	id := task.ID
	return a, func() tea.Msg {
		err := a.store.Delete(context.Background(), id)
		return taskDeletedMsg{id: id, err: err}
	}
}

// refreshTasks creates a command to fetch the full task list
func (a *App) refreshTasks() tea.Cmd {
	return func() tea.Msg {
		err := a.store.Refresh(context.Background(), nil)
		return tasksLoadedMsg{err: err}
	}
}

func (a *App) authenticate(msg authform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var err error
		if msg.Register {
			_, err = a.client.Register(context.Background(), msg.Email, msg.Name, msg.Password)
		} else {
			_, err = a.client.Login(context.Background(), msg.Email, msg.Password)
		}
		return authDoneMsg{err: err}
	}
}

func (a *App) saveTask(msg taskform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		if msg.TaskID == 0 {
			task, err := a.store.Create(context.Background(), msg.Input)
			return taskSavedMsg{task: task, err: err}
		}
		task, err := a.store.Update(context.Background(), msg.TaskID, msg.Patch)
		return taskSavedMsg{task: task, err: err}
	}
}

func (a *App) sendChat(msg chat.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.client.Chat(context.Background(), msg.Message, msg.ConversationID)
		if err != nil {
			return chat.ReplyMsg{Err: err}
		}
		// The assistant can mutate tasks, so resync before showing the answer
		_ = a.store.Refresh(context.Background(), nil)
		return chat.ReplyMsg{Response: reply.Response, ConversationID: reply.ConversationID}
	}
}

// View implements tea.Model
func (a *App) View() string {
	switch a.screen {
	case ScreenAuth:
		return a.viewAuth()
	case ScreenForm:
		return a.viewForm()
	case ScreenChat:
		return a.viewChat()
	default:
		return a.viewTasks()
	}
}

func (a *App) viewAuth() string {
	var sb strings.Builder
	if a.auth != nil {
		sb.WriteString(a.auth.View())
	}
	if a.loading {
		sb.WriteString("\n")
		sb.WriteString(a.spinner.View())
		sb.WriteString(" signing in...")
	}
	sb.WriteString(a.renderStatus())
	return sb.String()
}

func (a *App) viewForm() string {
	if a.form == nil {
		return ""
	}
	return a.form.View()
}

func (a *App) viewChat() string {
	if a.chatScreen == nil {
		return ""
	}
	return a.chatScreen.View()
}

func (a *App) viewTasks() string {
	var sb strings.Builder

	all, active, completed := viewmodel.Counts(a.store.Tasks())
	header := fmt.Sprintf("taskdeck  %d all · %d active · %d done", all, active, completed)
	sb.WriteString(styles.Title.Render(header))
	sb.WriteString("\n")
	sb.WriteString(a.renderFilterLine())
	sb.WriteString("\n\n")

	if a.loading {
		sb.WriteString(a.spinner.View())
		sb.WriteString(" loading tasks...")
	} else if len(a.visible) == 0 {
		sb.WriteString(styles.Subtitle.Render("No tasks match. Press 'a' to add one."))
	} else {
		sb.WriteString(a.renderTaskRows())
	}

	sb.WriteString("\n")
	sb.WriteString(a.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("j/k move · space toggle · a add · e edit · d delete · / search · f/c/p filter · esc clear · C chat · r refresh · L logout · q quit"))
	return sb.String()
}

func (a *App) renderFilterLine() string {
	parts := []string{"view: " + a.criteria.Status.String()}
	if a.criteria.Category != "" {
		parts = append(parts, "category: "+string(a.criteria.Category))
	}
	if a.criteria.Priority != "" {
		parts = append(parts, "priority: "+string(a.criteria.Priority))
	}
	if a.searching {
		parts = append(parts, "search: "+a.search.View())
	} else if a.criteria.Query != "" {
		parts = append(parts, "search: "+a.criteria.Query)
	}
	return styles.TaskMeta.Render(strings.Join(parts, "  |  "))
}

func (a *App) renderTaskRows() string {
	// Window the list so the cursor stays on screen
	rows := a.height - headerLines - footerLines
	if rows < 3 {
		rows = 3
	}
	start := 0
	if a.cursor >= rows {
		start = a.cursor - rows + 1
	}
	end := start + rows
	if end > len(a.visible) {
		end = len(a.visible)
	}

	now := time.Now()
	var sb strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString("\n")
		}
		sb.WriteString(a.renderRow(a.visible[i], i == a.cursor, now))
	}
	return sb.String()
}

func (a *App) renderRow(task client.Task, selected bool, now time.Time) string {
	checkbox := icons.CheckboxOpen
	if a.store.ToggleInFlight(task.ID) {
		checkbox = icons.CheckboxPending
	} else if task.Completed {
		checkbox = icons.CheckboxDone
	}

	title := task.Title
	titleStyle := styles.TaskTitle
	if task.Completed {
		titleStyle = styles.TaskDone
	}
	if selected {
		titleStyle = styles.SelectedRow
	}

	var meta []string
	meta = append(meta, fmt.Sprintf("#%d", task.ID))
	if task.Category != "" {
		meta = append(meta, icons.Category(task.Category)+" "+string(task.Category))
	}
	marker := lipgloss.NewStyle().
		Foreground(styles.ForPriority(string(task.Priority))).
		Render(icons.Priority(task.Priority))
	meta = append(meta, marker+" "+string(task.Priority))
	if task.DueDate != nil {
		due := task.DueDate.Local().Format("2006-01-02")
		if task.Overdue(now) {
			meta = append(meta, styles.TaskOverdue.Render(icons.OverdueMarker+" due "+due))
		} else {
			meta = append(meta, "due "+due)
		}
	}

	cursor := "  "
	if selected {
		cursor = "> "
	}
	return cursor + checkbox + " " + titleStyle.Render(title) + "  " + styles.TaskMeta.Render(strings.Join(meta, " · "))
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return "\n" + styles.StatusError.Render(a.status)
	}
	return "\n" + styles.StatusOK.Render(a.status)
}

// errorText flattens client errors into a one-line message
func errorText(err error) string {
	var vErr *client.ValidationError
	var apiErr *client.APIError
	var netErr *client.NetworkError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &netErr):
		return netErr.Error()
	default:
		return err.Error()
	}
}

func nextStatus(s viewmodel.Status) viewmodel.Status {
	switch s {
	case viewmodel.StatusAll:
		return viewmodel.StatusActive
	case viewmodel.StatusActive:
		return viewmodel.StatusCompleted
	default:
		return viewmodel.StatusAll
	}
}

func nextCategory(c client.Category) client.Category {
	if c == "" {
		return client.Categories[0]
	}
	for i, known := range client.Categories {
		if known == c {
			if i == len(client.Categories)-1 {
				return ""
			}
			return client.Categories[i+1]
		}
	}
	return ""
}

func nextPriority(p client.Priority) client.Priority {
	switch p {
	case "":
		return client.PriorityHigh
	case client.PriorityHigh:
		return client.PriorityMedium
	case client.PriorityMedium:
		return client.PriorityLow
	default:
		return ""
	}
}

// Run starts the TUI
func Run(apiClient *client.Client, sessions *session.Store) error {
	// Log file keeps diagnostics off the alternate screen
	if err := debuglog.Init(session.DefaultConfigDir()); err == nil {
		defer debuglog.Close()
	}

	app := New(apiClient, sessions)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	// The client clears the persisted session on a 401; the app drops to
	// the auth screen when it hears about it.
	apiClient.OnSessionInvalidated(func() {
		p.Send(sessionInvalidatedMsg{})
	})

	_, err := p.Run()
	return err
}
