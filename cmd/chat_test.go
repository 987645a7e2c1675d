package cmd

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTransport struct {
	reply string
}

func (s staticTransport) Open(ctx context.Context, req service.ChatRequest) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.reply)), nil
}

func TestChatModelQuickQuestionRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	convo := service.NewChat(&data.UserProfile{Name: "Sam"})
	assembler := service.NewAssembler(convo, staticTransport{reply: "Keep your **chest up** and sit back."}, nil)
	m := NewChatModel(ctx, assembler, "http://coach.test/api/chat")
	defer m.Close()

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	require.True(t, m.quickQuestionsVisible())
	assert.Contains(t, m.View(), "Quick questions")
	assert.Contains(t, m.View(), "Hi Sam!")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	assert.Nil(t, cmd)
	assert.Equal(t, service.QuickQuestions[2], m.input.Value())
	assert.False(t, m.busy())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.busy())
	assert.False(t, m.quickQuestionsVisible())
	assert.Empty(t, m.input.Value())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	done := make(chan tea.Msg, 1)
	go func() { done <- batch[0]() }()

	// Feed every notification to the view until the reply settles.
	for {
		msg := m.waitForUpdate()()
		n, ok := msg.(streamMsg)
		require.True(t, ok, "unexpected message %T", msg)
		m.Update(n)
		if n.Status == service.StatusFinished || n.Status == service.StatusError {
			require.Equal(t, service.StatusFinished, n.Status)
			break
		}
	}
	m.Update(<-done)

	assert.False(t, m.busy())
	view := m.conversationView()
	assert.Contains(t, view, service.QuickQuestions[2])
	assert.Contains(t, view, "chest up")
	assert.NotContains(t, view, typingLabel)
	assert.Equal(t, 3, convo.Len())
	// Greeting plus one exchange still offers the quick questions.
	assert.NotEmpty(t, m.quickQuestionsView())
}

func TestChatModelIgnoresBlankEnter(t *testing.T) {
	assembler := service.NewAssembler(nil, staticTransport{reply: "unused"}, nil)
	m := NewChatModel(context.Background(), assembler, "x")
	defer m.Close()
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.busy())
	assert.Zero(t, assembler.Conversation().Len())
}

func TestWrapWithIndentation(t *testing.T) {
	in := "    - a list item that is certainly longer than twenty columns"
	out := wrapWithIndentation(in, 30)
	for _, line := range strings.Split(out, "\n") {
		assert.True(t, strings.HasPrefix(line, "    "), "line %q lost its indent", line)
		assert.LessOrEqual(t, len(line), 30)
	}
	assert.Equal(t, "short", wrapWithIndentation("short", 30))
	assert.Equal(t, in, wrapWithIndentation(in, 0))
}
