package service

import (
	"fmt"
	"math"
	"time"

	"github.com/activebook/fitbot/data"
)

// WorkoutType groups workouts for display.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutHIIT        WorkoutType = "hiit"
)

// Exercise is one movement inside a workout.
type Exercise struct {
	ID            string
	Name          string
	Sets          int
	Reps          string
	Duration      int // seconds for timed holds, 0 otherwise
	RestSeconds   int
	Instructions  string
	TargetMuscles []string
	Difficulty    string
}

// Rest returns the rest period after this exercise.
func (e Exercise) Rest() time.Duration {
	return time.Duration(e.RestSeconds) * time.Second
}

// Workout is a generated session template.
type Workout struct {
	ID             string
	Name           string
	Description    string
	Minutes        int
	Difficulty     string
	Type           WorkoutType
	Equipment      []string
	Exercises      []Exercise
	CaloriesBurned int
}

// pick chooses by fitness level; anything unknown is treated as advanced.
func pick[T any](level string, beginner, intermediate, advanced T) T {
	switch level {
	case "beginner":
		return beginner
	case "intermediate":
		return intermediate
	default:
		return advanced
	}
}

// GenerateWorkouts builds the recommended workouts for a profile.
func GenerateWorkouts(p *data.UserProfile) []Workout {
	if p == nil {
		return nil
	}
	level := p.FitnessLevel
	minutes := p.Minutes
	if minutes <= 0 {
		minutes = DefaultMinutes
	}
	hasEquipment := len(p.Equipment) > 0 && !p.HasEquipment(BodyweightOnly)
	dumbbells := hasEquipment && p.HasEquipment("Dumbbells")
	equipment := []string{BodyweightOnly}
	if hasEquipment {
		equipment = append([]string(nil), p.Equipment...)
	}
	calories := func(perMinute float64) int {
		return int(math.Round(float64(minutes) * perMinute))
	}
	either := func(withDumbbells, without string) string {
		if dumbbells {
			return withDumbbells
		}
		return without
	}

	var workouts []Workout

	if p.Goal == "muscle-gain" || p.Goal == "strength" {
		workouts = append(workouts, Workout{
			ID:             "strength-1",
			Name:           "Upper Body Strength",
			Description:    "Build muscle and strength in your upper body",
			Minutes:        minutes,
			Difficulty:     level,
			Type:           WorkoutStrength,
			Equipment:      equipment,
			CaloriesBurned: calories(6),
			Exercises: []Exercise{
				{
					ID:            "push-ups",
					Name:          either("Dumbbell Chest Press", "Push-ups"),
					Sets:          pick(level, 3, 4, 5),
					Reps:          pick(level, "8-10", "10-12", "12-15"),
					RestSeconds:   60,
					Instructions:  either("Lie on bench, press dumbbells up from chest level", "Keep body straight, lower chest to ground, push back up"),
					TargetMuscles: []string{"Chest", "Shoulders", "Triceps"},
					Difficulty:    level,
				},
				{
					ID:            "rows",
					Name:          either("Dumbbell Rows", "Inverted Rows"),
					Sets:          pick(level, 3, 4, 5),
					Reps:          pick(level, "8-10", "10-12", "12-15"),
					RestSeconds:   60,
					Instructions:  either("Bend over, pull dumbbell to hip, squeeze shoulder blades", "Hang under bar, pull chest to bar"),
					TargetMuscles: []string{"Back", "Biceps"},
					Difficulty:    level,
				},
				{
					ID:            "shoulder-press",
					Name:          either("Dumbbell Shoulder Press", "Pike Push-ups"),
					Sets:          3,
					Reps:          pick(level, "6-8", "8-10", "10-12"),
					RestSeconds:   60,
					Instructions:  either("Press dumbbells overhead, control the descent", "In downward dog position, lower head toward ground"),
					TargetMuscles: []string{"Shoulders", "Triceps"},
					Difficulty:    level,
				},
			},
		})
	}

	if p.Goal == "weight-loss" || p.Goal == "endurance" {
		interval := func(id, name, instructions string, muscles ...string) Exercise {
			return Exercise{
				ID:            id,
				Name:          name,
				Sets:          4,
				Reps:          "30 seconds",
				Duration:      30,
				RestSeconds:   30,
				Instructions:  instructions,
				TargetMuscles: muscles,
				Difficulty:    level,
			}
		}
		workouts = append(workouts, Workout{
			ID:             "hiit-1",
			Name:           "HIIT Fat Burner",
			Description:    "High-intensity interval training for maximum calorie burn",
			Minutes:        minutes,
			Difficulty:     level,
			Type:           WorkoutHIIT,
			Equipment:      []string{BodyweightOnly},
			CaloriesBurned: calories(8),
			Exercises: []Exercise{
				interval("burpees", "Burpees", "Squat down, jump back to plank, do push-up, jump forward, jump up", "Full Body"),
				interval("mountain-climbers", "Mountain Climbers", "In plank position, alternate bringing knees to chest rapidly", "Core", "Cardio"),
				interval("jump-squats", "Jump Squats", "Squat down, explode up into a jump, land softly", "Legs", "Glutes"),
			},
		})
	}

	workouts = append(workouts, Workout{
		ID:             "full-body-1",
		Name:           "Full Body Blast",
		Description:    "Complete workout targeting all major muscle groups",
		Minutes:        minutes,
		Difficulty:     level,
		Type:           WorkoutStrength,
		Equipment:      equipment,
		CaloriesBurned: calories(7),
		Exercises: []Exercise{
			{
				ID:            "squats",
				Name:          either("Goblet Squats", "Bodyweight Squats"),
				Sets:          pick(level, 3, 4, 4),
				Reps:          pick(level, "10-12", "12-15", "15-20"),
				RestSeconds:   45,
				Instructions:  either("Hold dumbbell at chest, squat down keeping chest up", "Feet shoulder-width apart, squat down keeping chest up"),
				TargetMuscles: []string{"Legs", "Glutes"},
				Difficulty:    level,
			},
			{
				ID:            "push-ups-fb",
				Name:          "Push-ups",
				Sets:          3,
				Reps:          pick(level, "5-8", "8-12", "12-15"),
				RestSeconds:   45,
				Instructions:  "Keep body straight, lower chest to ground, push back up",
				TargetMuscles: []string{"Chest", "Shoulders", "Triceps"},
				Difficulty:    level,
			},
			{
				ID:            "plank",
				Name:          "Plank Hold",
				Sets:          3,
				Reps:          pick(level, "20-30 sec", "30-45 sec", "45-60 sec"),
				Duration:      pick(level, 25, 37, 52),
				RestSeconds:   30,
				Instructions:  "Hold straight line from head to heels, engage core",
				TargetMuscles: []string{"Core"},
				Difficulty:    level,
			},
		},
	})

	return workouts
}

// FindWorkout returns the workout with id from workouts.
func FindWorkout(workouts []Workout, id string) (Workout, error) {
	for _, w := range workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return Workout{}, fmt.Errorf("workout '%s' not found", id)
}

// WorkoutSession walks through a workout one exercise at a time.
type WorkoutSession struct {
	workout   Workout
	current   int
	completed map[string]bool
	active    bool
	started   time.Time
}

// StartWorkout begins a session at the first exercise.
func StartWorkout(w Workout) (*WorkoutSession, error) {
	if len(w.Exercises) == 0 {
		return nil, fmt.Errorf("workout '%s' has no exercises", w.Name)
	}
	return &WorkoutSession{
		workout:   w,
		completed: make(map[string]bool),
		active:    true,
		started:   time.Now(),
	}, nil
}

func (s *WorkoutSession) Workout() Workout {
	return s.workout
}

// Active reports whether the session is still running.
func (s *WorkoutSession) Active() bool {
	return s.active
}

// Index is the 0-based position of the current exercise.
func (s *WorkoutSession) Index() int {
	return s.current
}

func (s *WorkoutSession) Current() Exercise {
	return s.workout.Exercises[s.current]
}

// Next returns the exercise after the current one, if any.
func (s *WorkoutSession) Next() (Exercise, bool) {
	if s.current+1 < len(s.workout.Exercises) {
		return s.workout.Exercises[s.current+1], true
	}
	return Exercise{}, false
}

// Complete marks the current exercise done. If another exercise follows it
// becomes current and the rest period of the finished exercise is returned;
// otherwise the session ends and done is true.
func (s *WorkoutSession) Complete() (rest time.Duration, done bool) {
	if !s.active {
		return 0, true
	}
	ex := s.Current()
	s.completed[ex.ID] = true
	if s.current < len(s.workout.Exercises)-1 {
		s.current++
		return ex.Rest(), false
	}
	s.active = false
	return 0, true
}

// End stops the session early.
func (s *WorkoutSession) End() {
	s.active = false
}

// CompletedCount is the number of exercises marked done.
func (s *WorkoutSession) CompletedCount() int {
	return len(s.completed)
}

// Progress is the percent of exercises done, counting the current one if completed.
func (s *WorkoutSession) Progress() int {
	n := len(s.workout.Exercises)
	done := s.current
	if s.completed[s.Current().ID] {
		done++
	}
	return done * 100 / n
}

// Elapsed is the time since the session started.
func (s *WorkoutSession) Elapsed() time.Duration {
	return time.Since(s.started)
}

// ProgressEntry builds the log entry for a finished session.
func (s *WorkoutSession) ProgressEntry(date time.Time) data.ProgressEntry {
	minutes := int(math.Round(s.Elapsed().Minutes()))
	if minutes <= 0 || s.CompletedCount() == len(s.workout.Exercises) {
		minutes = s.workout.Minutes
	}
	calories := s.workout.CaloriesBurned * s.CompletedCount() / len(s.workout.Exercises)
	return data.ProgressEntry{
		Date:             date.Format(data.DateLayout),
		WorkoutCompleted: s.CompletedCount() > 0,
		CaloriesBurned:   calories,
		Duration:         minutes,
		Notes:            s.workout.Name,
	}
}
