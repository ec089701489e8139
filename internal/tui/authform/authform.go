// ABOUTME: Login/register form as a bubbletea model
// ABOUTME: Uses huh fields and emits a message when credentials are submitted

package authform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/taskdeck/taskdeck/internal/tui/styles"
)

// SubmitMsg is sent when the user submits the form
type SubmitMsg struct {
	Email    string
	Name     string
	Password string
	Register bool
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// Form manages the login/register flow as a bubbletea model
type Form struct {
	form  *huh.Form
	width int

	mode     string
	email    string
	name     string
	password string
}

// New creates a fresh auth form defaulting to login
func New() *Form {
	f := &Form{mode: modeLogin}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Log in", modeLogin),
					huh.NewOption("Register", modeRegister),
				).
				Value(&f.mode),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&f.email),
			huh.NewInput().
				Title("Name").
				Description("Only needed when registering").
				Value(&f.name),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password),
		).Title("Welcome to taskdeck").
			Description("Sign in to manage your tasks"),
	).WithTheme(huh.ThemeBase())
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		f.form = m
	}

	if f.form.State == huh.StateCompleted {
		submit := SubmitMsg{
			Email:    strings.TrimSpace(f.email),
			Name:     strings.TrimSpace(f.name),
			Password: f.password,
			Register: f.mode == modeRegister,
		}
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

// Reset re-arms the form after a failed submission, keeping the typed email
func (f *Form) Reset() tea.Cmd {
	f.password = ""
	f.form = f.createForm()
	return f.form.Init()
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("taskdeck"))
	sb.WriteString("\n")
	sb.WriteString(f.form.View())
	return sb.String()
}
