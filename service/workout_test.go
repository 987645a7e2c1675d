package service

import (
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workoutIDs(ws []Workout) []string {
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
	}
	return ids
}

func TestGenerateWorkoutsByGoal(t *testing.T) {
	tests := []struct {
		goal string
		want []string
	}{
		{"muscle-gain", []string{"strength-1", "full-body-1"}},
		{"strength", []string{"strength-1", "full-body-1"}},
		{"weight-loss", []string{"hiit-1", "full-body-1"}},
		{"endurance", []string{"hiit-1", "full-body-1"}},
		{"flexibility", []string{"full-body-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			ws := GenerateWorkouts(&data.UserProfile{Goal: tt.goal, FitnessLevel: "beginner", Minutes: 30})
			assert.Equal(t, tt.want, workoutIDs(ws))
		})
	}
	assert.Nil(t, GenerateWorkouts(nil))
}

func TestGenerateWorkoutsScalesWithLevelAndEquipment(t *testing.T) {
	beginner := GenerateWorkouts(&data.UserProfile{Goal: "strength", FitnessLevel: "beginner", Minutes: 30})
	advanced := GenerateWorkouts(&data.UserProfile{Goal: "strength", FitnessLevel: "advanced", Minutes: 60, Equipment: []string{"Dumbbells"}})

	assert.Equal(t, "Push-ups", beginner[0].Exercises[0].Name)
	assert.Equal(t, 3, beginner[0].Exercises[0].Sets)
	assert.Equal(t, "8-10", beginner[0].Exercises[0].Reps)
	assert.Equal(t, 180, beginner[0].CaloriesBurned)
	assert.Equal(t, []string{BodyweightOnly}, beginner[0].Equipment)

	assert.Equal(t, "Dumbbell Chest Press", advanced[0].Exercises[0].Name)
	assert.Equal(t, 5, advanced[0].Exercises[0].Sets)
	assert.Equal(t, "Goblet Squats", advanced[1].Exercises[0].Name)
	assert.Equal(t, 420, advanced[1].CaloriesBurned)
	assert.Equal(t, []string{"Dumbbells"}, advanced[1].Equipment)

	// Bodyweight-only wins over anything else ticked.
	mixed := GenerateWorkouts(&data.UserProfile{Goal: "strength", Equipment: []string{BodyweightOnly, "Dumbbells"}})
	assert.Equal(t, "Push-ups", mixed[0].Exercises[0].Name)
	assert.Equal(t, DefaultMinutes, mixed[0].Minutes)
}

func TestFindWorkout(t *testing.T) {
	ws := GenerateWorkouts(&data.UserProfile{Goal: "weight-loss"})
	w, err := FindWorkout(ws, "hiit-1")
	require.NoError(t, err)
	assert.Equal(t, "HIIT Fat Burner", w.Name)

	_, err = FindWorkout(ws, "strength-1")
	assert.Error(t, err)
}

func TestWorkoutSession(t *testing.T) {
	w := GenerateWorkouts(&data.UserProfile{Goal: "general-fitness", FitnessLevel: "beginner", Minutes: 30})[0]
	s, err := StartWorkout(w)
	require.NoError(t, err)

	assert.True(t, s.Active())
	assert.Equal(t, "Bodyweight Squats", s.Current().Name)
	assert.Equal(t, 0, s.Progress())
	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "Push-ups", next.Name)

	rest, done := s.Complete()
	assert.False(t, done)
	assert.Equal(t, 45*time.Second, rest)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 33, s.Progress())

	s.Complete()
	rest, done = s.Complete()
	assert.True(t, done)
	assert.Zero(t, rest)
	assert.False(t, s.Active())
	assert.Equal(t, 3, s.CompletedCount())
	assert.Equal(t, 100, s.Progress())
	_, ok = s.Next()
	assert.False(t, ok)

	entry := s.ProgressEntry(time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-12", entry.Date)
	assert.True(t, entry.WorkoutCompleted)
	assert.Equal(t, w.CaloriesBurned, entry.CaloriesBurned)
	assert.Equal(t, w.Minutes, entry.Duration)
	assert.Equal(t, w.Name, entry.Notes)
}

func TestWorkoutSessionEndedEarly(t *testing.T) {
	w := GenerateWorkouts(&data.UserProfile{Goal: "weight-loss", FitnessLevel: "beginner", Minutes: 30})[0]
	s, err := StartWorkout(w)
	require.NoError(t, err)

	s.Complete()
	s.End()
	assert.False(t, s.Active())
	rest, done := s.Complete()
	assert.True(t, done)
	assert.Zero(t, rest)

	entry := s.ProgressEntry(time.Now())
	assert.Equal(t, 1, s.CompletedCount())
	assert.Equal(t, w.CaloriesBurned/3, entry.CaloriesBurned)

	_, err = StartWorkout(Workout{Name: "Empty"})
	assert.Error(t, err)
}
