package service

import (
	"errors"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatStartsWithGreeting(t *testing.T) {
	c := NewChat(&data.UserProfile{Name: "Kim"})
	turns := c.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, RoleAssistant, turns[0].Role)
	assert.Equal(t, TurnComplete, turns[0].State)
	assert.True(t, ShowQuickQuestions(c))
	assert.Len(t, QuickQuestions, 3)
}

func TestConversationLifecycle(t *testing.T) {
	c := NewConversation()
	req, err := c.begin("hi")
	require.NoError(t, err)
	assert.Len(t, req.Messages, 1)
	assert.True(t, c.Streaming())

	_, err = c.begin("again")
	assert.ErrorIs(t, err, ErrStreamOpen)
	assert.ErrorIs(t, c.Clear(), ErrStreamOpen)

	turn := c.openAssistant()
	assert.Equal(t, TurnPending, turn.State)
	assert.False(t, turn.Terminal())
	c.appendChunk(turn.ID, "Hey")
	turn = c.appendChunk(turn.ID, " you")
	assert.Equal(t, "Hey you", turn.Content)

	turn = c.finish(turn.ID)
	assert.Equal(t, TurnComplete, turn.State)
	assert.True(t, turn.Terminal())
	assert.False(t, c.Streaming())

	// Terminal turns never change again.
	turn = c.appendChunk(turn.ID, "!")
	assert.Equal(t, "Hey you", turn.Content)
	turn = c.fail(turn.ID, errors.New("late"))
	assert.Equal(t, TurnComplete, turn.State)

	assert.Equal(t, 1, c.UserTurns())
	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

func TestTranscriptRoundTrip(t *testing.T) {
	c := NewChat(nil)
	_, err := c.begin("What should I eat?")
	require.NoError(t, err)
	c.fail("", errors.New("refused"))

	_, err = c.begin("Try again")
	require.NoError(t, err)
	pending := c.openAssistant()
	c.appendChunk(pending.ID, "Oats")

	tr := c.Transcript("lunch-ideas")
	assert.Equal(t, "lunch-ideas", tr.Name)
	require.Len(t, tr.Turns, 4, "the open reply is not saved")
	assert.True(t, tr.Turns[2].Failed)
	assert.Equal(t, ApologyText, tr.Turns[2].Content)

	restored, err := Restore(tr)
	require.NoError(t, err)
	turns := restored.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, TurnFailed, turns[2].State)
	assert.Equal(t, "Try again", turns[3].Content)
	assert.Equal(t, tr.Turns[1].CreatedAt, turns[1].CreatedAt)
	assert.False(t, restored.Streaming())
	assert.False(t, ShowQuickQuestions(restored), "quick questions stop after the first exchange")
}

func TestRestoreRejectsUnknownRole(t *testing.T) {
	_, err := Restore(&data.Transcript{Name: "x", Turns: []data.TranscriptTurn{{Role: "system", Content: "be nice", CreatedAt: time.Now()}}})
	assert.Error(t, err)

	c, err := Restore(nil)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestReplyDeliveryFailureMessages(t *testing.T) {
	status := &ReplyDeliveryFailure{Stage: StageStatus, StatusCode: 503}
	assert.Contains(t, status.Error(), "503")

	cause := errors.New("EOF")
	wrapped := asDeliveryFailure(StageTransport, cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Same(t, wrapped, asDeliveryFailure(StageRequest, wrapped))
	assert.True(t, IsReplyDeliveryFailure(wrapped))
	assert.False(t, IsReplyDeliveryFailure(cause))
}
