// ABOUTME: Chat screen backed by the assistant endpoint
// ABOUTME: Viewport transcript plus a textinput prompt, tracks the conversation id

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/tui/styles"
)

// SubmitMsg asks the app to send a message to the assistant
type SubmitMsg struct {
	Message        string
	ConversationID string
}

// ReplyMsg carries the assistant's answer back into the transcript
type ReplyMsg struct {
	Response       string
	ConversationID string
	Err            error
}

// CancelledMsg is sent when the user leaves the chat screen
type CancelledMsg struct{}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleError
)

type entry struct {
	role role
	text string
}

// Model is the chat screen
type Model struct {
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	entries        []entry
	conversationID string
	waiting        bool
	width          int
	height         int
}

// New creates an empty chat screen
func New() *Model {
	input := textinput.New()
	input.Placeholder = "Ask about your tasks..."
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  sp,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Leave room for the panel borders and the input panel below
		m.viewport.Width = msg.Width - 8
		m.viewport.Height = msg.Height - 12
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return CancelledMsg{} }
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.entries = append(m.entries, entry{role: roleUser, text: text})
			m.input.Reset()
			m.waiting = true
			m.refreshTranscript()
			submit := SubmitMsg{Message: text, ConversationID: m.conversationID}
			return m, tea.Batch(
				m.spinner.Tick,
				func() tea.Msg { return submit },
			)
		}

	case ReplyMsg:
		m.waiting = false
		if msg.Err != nil {
			m.entries = append(m.entries, entry{role: roleError, text: msg.Err.Error()})
		} else {
			m.entries = append(m.entries, entry{role: roleAssistant, text: msg.Response})
			if msg.ConversationID != "" {
				m.conversationID = msg.ConversationID
			}
		}
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) refreshTranscript() {
	wrap := lipgloss.NewStyle().Width(m.viewport.Width)

	var sb strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch e.role {
		case roleUser:
			sb.WriteString(styles.ChatUser.Render("You"))
		case roleAssistant:
			sb.WriteString(styles.ChatAssistant.Render("Assistant"))
		case roleError:
			sb.WriteString(styles.StatusError.Render("Error"))
		}
		sb.WriteString("\n")
		sb.WriteString(wrap.Render(e.text))
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model
func (m *Model) View() string {
	panelWidth := m.width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Chat"))
	sb.WriteString("\n")
	sb.WriteString(styles.Panel.Width(panelWidth).Render(m.viewport.View()))
	sb.WriteString("\n")
	if m.waiting {
		sb.WriteString(styles.Panel.Width(panelWidth).Render(m.spinner.View() + " thinking..."))
	} else {
		sb.WriteString(styles.ActivePanel.Width(panelWidth).Render(m.input.View()))
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("enter to send · esc to go back"))
	return sb.String()
}
