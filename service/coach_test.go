package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     coachIntent
	}{
		{"Create a workout plan for me", intentWorkout},
		{"What should I eat for muscle gain?", intentNutrition},
		{"How do I improve my squat form?", intentForm},
		{"I'm so tired today", intentMotivation},
		{"I hit a plateau", intentProgress},
		{"hello!", intentGreeting},
		{"Which shoes?", intentGeneral},
		{"this is hard to keep up", intentMotivation},
		{"Is training fasted okay?", intentWorkout},
		// "hi" must not match inside other words.
		{"high knees or jumping jacks?", intentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.question))
		})
	}
}

func TestCoachAnswerUsesProfile(t *testing.T) {
	p := &data.UserProfile{
		Name:         "Ana",
		Goal:         "muscle-gain",
		FitnessLevel: "intermediate",
		Minutes:      45,
		Equipment:    []string{"Dumbbells"},
		Restrictions: []string{"Knee Problems"},
	}
	r := NewCoachReplier(0, stubProfiles{p: p})

	plan := r.Answer("Create a workout plan for me")
	assert.Contains(t, plan, "Ana")
	assert.Contains(t, plan, "45 minutes")
	assert.Contains(t, plan, "Dumbbell Chest Press")
	assert.Contains(t, plan, "Knee Problems")

	food := r.Answer("What should I eat for muscle gain?")
	assert.Contains(t, food, "2400 kcal")
	assert.Contains(t, food, "spread protein")

	assert.Contains(t, r.Answer("How do I improve my squat form?"), "Feet shoulder-width apart")
}

func TestCoachAnswerWithoutProfile(t *testing.T) {
	r := NewCoachReplier(0, stubProfiles{})
	assert.Contains(t, r.Answer("Create a workout plan for me"), "fitbot onboard")
	assert.Contains(t, r.Answer("hey"), "Hey there!")

	// A broken profile file degrades to the anonymous coach.
	r = NewCoachReplier(0, stubProfiles{err: errors.New("yaml: bad indent")})
	assert.Contains(t, r.Answer("hey"), "Hey there!")
}

func TestCoachStreamReply(t *testing.T) {
	r := NewCoachReplier(0, nil)
	msgs := []WireMessage{
		{Role: RoleUser, Content: "How do I improve my squat form?"},
		{Role: RoleAssistant, Content: "..."},
		{Role: RoleUser, Content: "and my plank?"},
	}
	var pieces []string
	err := r.StreamReply(context.Background(), "", msgs, func(s string) error {
		pieces = append(pieces, s)
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, len(pieces), 1)
	assert.Equal(t, r.Answer("and my plank?"), strings.Join(pieces, ""))
}

func TestCoachStreamReplyStops(t *testing.T) {
	r := NewCoachReplier(0, nil)
	stop := errors.New("client gone")
	calls := 0
	err := r.StreamReply(context.Background(), "", []WireMessage{{Role: RoleUser, Content: "hello"}}, func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = NewCoachReplier(time.Hour, nil)
	err = r.StreamReply(ctx, "", []WireMessage{{Role: RoleUser, Content: "hello"}}, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReplier(t *testing.T) {
	r, err := NewReplier(context.Background(), data.ReplySettings{}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendCoach, r.Name())

	_, err = NewReplier(context.Background(), data.ReplySettings{Backend: "openai"}, nil)
	assert.ErrorContains(t, err, "API key")

	_, err = NewReplier(context.Background(), data.ReplySettings{Backend: "anthropic", Key: "k"}, nil)
	assert.ErrorContains(t, err, "model")

	_, err = NewReplier(context.Background(), data.ReplySettings{Backend: "volcengine", Model: "doubao-pro"}, nil)
	assert.ErrorContains(t, err, "API key")

	r, err = NewReplier(context.Background(), data.ReplySettings{Backend: " Volcengine ", Key: "k", Model: "doubao-pro"}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendVolcengine, r.Name())

	_, err = NewReplier(context.Background(), data.ReplySettings{Backend: "llama"}, nil)
	assert.ErrorContains(t, err, "unknown reply backend")
}
