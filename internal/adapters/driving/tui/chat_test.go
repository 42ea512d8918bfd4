package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
)

// scriptedAnswerer replays a fixed stream for every question.
type scriptedAnswerer struct {
	tokens []string
	result driving.AnswerStreamResult
	asked  []domain.Query
}

func (s *scriptedAnswerer) Answer(context.Context, domain.Query) (*domain.Answer, error) {
	return s.result.Answer, s.result.Err
}

func (s *scriptedAnswerer) AnswerStream(_ context.Context, q domain.Query) (<-chan string, <-chan driving.AnswerStreamResult) {
	s.asked = append(s.asked, q)
	deltas := make(chan string, len(s.tokens))
	results := make(chan driving.AnswerStreamResult, 1)
	for _, tok := range s.tokens {
		deltas <- tok
	}
	close(deltas)
	results <- s.result
	close(results)
	return deltas, results
}

func (s *scriptedAnswerer) Retrieve(context.Context, string, int) ([]domain.ScoredChunk, error) {
	return nil, nil
}

func (s *scriptedAnswerer) Phase() domain.AnswerPhase { return domain.PhaseIdle }

type recordingCanceller struct{ called bool }

func (r *recordingCanceller) RequestCancel() { r.called = true }

// drive pumps the model until the stream finishes.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
		if _, done := msg.(doneMsg); done {
			break
		}
	}
	return m
}

func newChatModel(answerer driving.AnswerService, canceller Canceller) Model {
	m := New(answerer, canceller, domain.DefaultConfig())
	var next tea.Model
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func askQuestion(t *testing.T, m Model, question string) Model {
	t.Helper()
	m.input.SetValue(question)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.streaming)
	return drive(t, m, cmd)
}

func TestChatStreamsAnswerIntoTranscript(t *testing.T) {
	answerer := &scriptedAnswerer{
		tokens: []string{"Hello", " there"},
		result: driving.AnswerStreamResult{Answer: &domain.Answer{
			Text:     "Hello there",
			Sources:  []string{"/docs/a.md"},
			Status:   domain.AnswerCompleted,
			Grounded: true,
		}},
	}

	m := newChatModel(answerer, &recordingCanceller{})
	m = askQuestion(t, m, "hi?")

	assert.False(t, m.streaming)
	assert.Contains(t, m.transcript, "hi?")
	assert.Contains(t, m.transcript, "Hello there")
	assert.Contains(t, m.transcript, "/docs/a.md")
	assert.Equal(t, "Ready.", m.status)
}

func TestChatAccumulatesHistory(t *testing.T) {
	answerer := &scriptedAnswerer{
		tokens: []string{"answer"},
		result: driving.AnswerStreamResult{Answer: &domain.Answer{
			Text: "answer", Status: domain.AnswerCompleted,
		}},
	}

	m := newChatModel(answerer, &recordingCanceller{})
	m = askQuestion(t, m, "first question")
	m = askQuestion(t, m, "second question")

	history := m.History()
	require.Len(t, history, 4)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "first question", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)

	// The second question carried the first exchange as history.
	require.Len(t, answerer.asked, 2)
	assert.Len(t, answerer.asked[0].History, 0)
	assert.Len(t, answerer.asked[1].History, 2)
}

func TestChatEscRequestsCancel(t *testing.T) {
	canceller := &recordingCanceller{}
	answerer := &scriptedAnswerer{
		tokens: []string{"partial"},
		result: driving.AnswerStreamResult{Answer: &domain.Answer{
			Text: "partial", Status: domain.AnswerCancelled,
		}},
	}

	m := newChatModel(answerer, canceller)
	m.input.SetValue("q")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.True(t, canceller.called)

	m = drive(t, m, cmd)
	assert.Equal(t, "Cancelled.", m.status)
}

func TestChatShowsStreamErrors(t *testing.T) {
	answerer := &scriptedAnswerer{
		result: driving.AnswerStreamResult{Err: domain.ErrBusy},
	}

	m := newChatModel(answerer, &recordingCanceller{})
	m = askQuestion(t, m, "q")

	assert.False(t, m.streaming)
	assert.True(t, strings.HasPrefix(m.status, "Error:"))
	assert.Empty(t, m.History())
}

func TestChatIgnoresEnterWhileStreaming(t *testing.T) {
	answerer := &scriptedAnswerer{
		tokens: []string{"tok"},
		result: driving.AnswerStreamResult{Answer: &domain.Answer{Text: "tok", Status: domain.AnswerCompleted}},
	}

	m := newChatModel(answerer, &recordingCanceller{})
	m.input.SetValue("first")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	m.input.SetValue("second")
	next, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, second)
	assert.Len(t, answerer.asked, 1)

	m = drive(t, m, cmd)
	assert.False(t, m.streaming)
}
