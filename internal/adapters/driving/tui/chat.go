// Package tui provides the interactive chat terminal UI. Questions are
// streamed: answer increments render as they arrive, and Esc cancels the
// generation in flight.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
)

// Canceller is the subset of the operation controller the chat needs.
type Canceller interface {
	RequestCancel()
}

// deltaMsg carries one streamed answer increment.
type deltaMsg string

// doneMsg carries the final result of a streamed answer.
type doneMsg driving.AnswerStreamResult

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	answerer  driving.AnswerService
	canceller Canceller
	cfg       *domain.Config

	input    textinput.Model
	viewport viewport.Model

	history    []domain.Turn
	transcript string
	partial    string
	question   string

	deltas  <-chan string
	results <-chan driving.AnswerStreamResult

	streaming bool
	ready     bool
	status    string
}

// New creates a new chat model.
func New(answerer driving.AnswerService, canceller Canceller, cfg *domain.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		answerer:  answerer,
		canceller: canceller,
		cfg:       cfg,
		input:     ti,
		viewport:  vp,
		status:    "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.streaming {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			return m.startQuestion(question)
		case "esc":
			if m.streaming && m.canceller != nil {
				m.canceller.RequestCancel()
				m.status = "Cancelling…"
				return m, nil
			}
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case deltaMsg:
		m.partial += string(msg)
		m.refreshViewport()
		return m, m.readStream()

	case doneMsg:
		return m.finishAnswer(driving.AnswerStreamResult(msg))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docchat")
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

// startQuestion begins a streamed answer for the question.
func (m Model) startQuestion(question string) (Model, tea.Cmd) {
	m.question = question
	m.input.SetValue("")
	m.partial = ""
	m.transcript += userStyle.Render("You: ") + question + "\n"

	query := domain.Query{
		Text:    question,
		History: append([]domain.Turn(nil), m.history...),
	}
	m.deltas, m.results = m.answerer.AnswerStream(context.Background(), query)
	m.streaming = true
	m.status = "Thinking… (Esc to cancel)"
	m.refreshViewport()
	return m, m.readStream()
}

// readStream waits for the next stream event. Deltas win until the token
// channel closes, then the single final result is delivered.
func (m Model) readStream() tea.Cmd {
	deltas, results := m.deltas, m.results
	return func() tea.Msg {
		if delta, ok := <-deltas; ok {
			return deltaMsg(delta)
		}
		return doneMsg(<-results)
	}
}

// finishAnswer folds the final stream result into the transcript and the
// conversation history.
func (m Model) finishAnswer(result driving.AnswerStreamResult) (Model, tea.Cmd) {
	m.streaming = false

	if result.Err != nil {
		m.status = "Error: " + result.Err.Error()
		m.transcript += errorStyle.Render("Error: "+result.Err.Error()) + "\n\n"
		m.partial = ""
		m.refreshViewport()
		return m, nil
	}

	answer := result.Answer
	m.transcript += assistantStyle.Render("docchat: ") + answer.Text + "\n"
	if len(answer.Sources) > 0 {
		m.transcript += sourceStyle.Render("Sources: "+strings.Join(answer.Sources, ", ")) + "\n"
	}
	m.transcript += "\n"

	switch answer.Status {
	case domain.AnswerCancelled:
		m.status = "Cancelled."
	default:
		m.status = "Ready."
	}

	m.history = append(m.history,
		domain.Turn{ID: uuid.New().String(), Role: domain.RoleUser, Content: m.question},
		domain.Turn{ID: uuid.New().String(), Role: domain.RoleAssistant, Content: answer.Text},
	)
	// Keep twice the prompt window; the engine trims further.
	if keep := m.cfg.MaxHistoryTurns * 2; len(m.history) > keep {
		m.history = m.history[len(m.history)-keep:]
	}

	m.partial = ""
	m.refreshViewport()
	return m, nil
}

func (m *Model) refreshViewport() {
	content := m.transcript
	if m.streaming {
		content += assistantStyle.Render("docchat: ") + m.partial
	}
	if content == "" {
		content = "Ask a question to get started."
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// History returns the accumulated conversation turns.
func (m Model) History() []domain.Turn {
	return m.history
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the chat UI and blocks until the user quits.
func Run(answerer driving.AnswerService, canceller Canceller, cfg *domain.Config) error {
	p := tea.NewProgram(New(answerer, canceller, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}
