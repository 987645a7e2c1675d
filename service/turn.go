package service

import (
	"time"

	"github.com/google/uuid"
)

// Role is the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnState tags the lifecycle of a turn: Pending(partial) then exactly one
// of Complete(text) or Failed(reason).
type TurnState int

const (
	TurnPending TurnState = iota
	TurnComplete
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnPending:
		return "pending"
	case TurnComplete:
		return "complete"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Turn is one message in the chat history. Values handed out by Conversation
// are snapshots; only the conversation mutates its own turns.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	State     TurnState
	Reason    error
	CreatedAt time.Time
}

// Terminal reports whether the turn can no longer change.
func (t Turn) Terminal() bool {
	return t.State != TurnPending
}

func newTurn(role Role, content string, state TurnState) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		State:     state,
		CreatedAt: time.Now(),
	}
}

// WireMessage is the role+content form sent to the reply service.
type WireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the JSON body POSTed to the reply service.
type ChatRequest struct {
	Messages []WireMessage `json:"messages"`
}
