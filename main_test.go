package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfiles struct {
	p *data.UserProfile
}

func (s staticProfiles) Load() (*data.UserProfile, error) {
	if s.p == nil {
		return nil, data.ErrNoProfile
	}
	return s.p, nil
}

// TestChatAgainstCoachServer runs the chat client against the real reply
// service backed by the offline coach.
func TestChatAgainstCoachServer(t *testing.T) {
	profiles := staticProfiles{p: &data.UserProfile{
		Name:         "Sam",
		Age:          30,
		Goal:         "strength",
		FitnessLevel: "beginner",
		Minutes:      30,
		Equipment:    []string{"Dumbbells"},
	}}
	replier := service.NewCoachReplier(time.Millisecond, profiles)
	srv := httptest.NewServer(service.NewServer("", replier, profiles).Handler())
	defer srv.Close()

	var chunks []string
	convo := service.NewChat(profiles.p)
	assembler := service.NewAssembler(convo, service.NewHTTPTransport(srv.URL+"/api/chat", 5*time.Second), func(n service.StreamNotify) {
		if n.Status == service.StatusData {
			chunks = append(chunks, n.Data)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	turn, err := assembler.Submit(ctx, "Create a workout plan for me")
	require.NoError(t, err)
	assert.Equal(t, service.TurnComplete, turn.State)
	assert.Equal(t, replier.Answer("Create a workout plan for me"), turn.Content)
	assert.Equal(t, turn.Content, strings.Join(chunks, ""))
	assert.Contains(t, turn.Content, "Upper Body Strength")
	assert.False(t, assembler.Busy())

	turns := convo.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, service.RoleAssistant, turns[0].Role)
	assert.Equal(t, service.RoleUser, turns[1].Role)
	assert.Equal(t, turn.ID, turns[2].ID)
}
