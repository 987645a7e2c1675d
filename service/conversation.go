package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/activebook/fitbot/data"
)

// Conversation is the chat history owned by whichever view mounts the chat.
// It is append-only; the single in-place change is the text growth of the
// newest assistant turn while its stream is open. At most one stream may be
// open at a time.
type Conversation struct {
	mu        sync.Mutex
	turns     []Turn
	streaming bool
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Seed appends a completed turn without any network activity (greetings, restored transcripts).
func (c *Conversation) Seed(role Role, content string) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := newTurn(role, content, TurnComplete)
	c.turns = append(c.turns, t)
	return t
}

// Turns returns a snapshot of the history.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// UserTurns counts turns authored by the user.
func (c *Conversation) UserTurns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.turns {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}

// Streaming reports whether a reply stream is open.
func (c *Conversation) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// Clear drops the history. Not allowed while a stream is open.
func (c *Conversation) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streaming {
		return ErrStreamOpen
	}
	c.turns = nil
	return nil
}

// begin appends the user turn, marks the conversation as streaming and
// returns the request built from all turns including the new one.
func (c *Conversation) begin(text string) (ChatRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streaming {
		return ChatRequest{}, ErrStreamOpen
	}
	c.turns = append(c.turns, newTurn(RoleUser, text, TurnComplete))
	c.streaming = true

	msgs := make([]WireMessage, 0, len(c.turns))
	for _, t := range c.turns {
		msgs = append(msgs, WireMessage{Role: t.Role, Content: t.Content})
	}
	return ChatRequest{Messages: msgs}, nil
}

// openAssistant inserts the empty pending assistant turn.
func (c *Conversation) openAssistant() Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := newTurn(RoleAssistant, "", TurnPending)
	c.turns = append(c.turns, t)
	return t
}

// find returns the index of the turn with id, or -1.
func (c *Conversation) find(id string) int {
	for i := len(c.turns) - 1; i >= 0; i-- {
		if c.turns[i].ID == id {
			return i
		}
	}
	return -1
}

// appendChunk grows the pending turn with id. Terminal turns are left alone.
func (c *Conversation) appendChunk(id, chunk string) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.find(id)
	if i < 0 {
		return Turn{}
	}
	if c.turns[i].State == TurnPending {
		c.turns[i].Content += chunk
	}
	return c.turns[i]
}

// finish completes the pending turn and closes the stream.
func (c *Conversation) finish(id string) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streaming = false
	i := c.find(id)
	if i < 0 {
		return Turn{}
	}
	if c.turns[i].State == TurnPending {
		c.turns[i].State = TurnComplete
	}
	return c.turns[i]
}

// fail substitutes the apology for the turn's content and closes the stream.
// An empty id means the reply never opened; a failed turn is appended instead.
func (c *Conversation) fail(id string, reason error) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streaming = false

	i := -1
	if id != "" {
		i = c.find(id)
	}
	if i < 0 {
		t := newTurn(RoleAssistant, ApologyText, TurnFailed)
		t.Reason = reason
		c.turns = append(c.turns, t)
		return t
	}
	if c.turns[i].State == TurnPending {
		c.turns[i].Content = ApologyText
		c.turns[i].State = TurnFailed
		c.turns[i].Reason = reason
	}
	return c.turns[i]
}

// Transcript converts the history for saving.
func (c *Conversation) Transcript(name string) *data.Transcript {
	turns := c.Turns()
	t := &data.Transcript{Name: name, SavedAt: time.Now()}
	for _, turn := range turns {
		if turn.State == TurnPending {
			continue
		}
		t.Turns = append(t.Turns, data.TranscriptTurn{
			Role:      string(turn.Role),
			Content:   turn.Content,
			Failed:    turn.State == TurnFailed,
			CreatedAt: turn.CreatedAt,
		})
	}
	return t
}

// Restore rebuilds a conversation from a saved transcript.
func Restore(t *data.Transcript) (*Conversation, error) {
	c := NewConversation()
	if t == nil {
		return c, nil
	}
	for _, saved := range t.Turns {
		role := Role(saved.Role)
		if role != RoleUser && role != RoleAssistant {
			return nil, fmt.Errorf("transcript '%s' has unknown role '%s'", t.Name, saved.Role)
		}
		state := TurnComplete
		if saved.Failed {
			state = TurnFailed
		}
		turn := newTurn(role, saved.Content, state)
		if !saved.CreatedAt.IsZero() {
			turn.CreatedAt = saved.CreatedAt
		}
		c.turns = append(c.turns, turn)
	}
	return c, nil
}
