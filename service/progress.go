package service

import (
	"fmt"
	"math"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/google/uuid"
)

const (
	calorieCrusherTarget = 2000
	consistencyStreak    = 4
)

// ProgressStats summarises a progress log.
type ProgressStats struct {
	Entries        int
	WeightChange   float64 // last recorded weight minus first, lbs
	TotalWorkouts  int
	TotalCalories  int
	AvgDuration    float64 // minutes per entry
	LatestWeight   *float64
	LatestBodyFat  *float64
	CurrentStreak  int
	LongestStreak  int
	FirstEntryDate string
	LastEntryDate  string
}

// ComputeStats derives the overview numbers. Entries must be date ordered.
func ComputeStats(entries []data.ProgressEntry) ProgressStats {
	var s ProgressStats
	s.Entries = len(entries)
	if len(entries) == 0 {
		return s
	}
	s.FirstEntryDate = entries[0].Date
	s.LastEntryDate = entries[len(entries)-1].Date

	var first, last *float64
	totalDuration := 0
	streak := 0
	for i := range entries {
		e := entries[i]
		if e.Weight != nil {
			if first == nil {
				first = e.Weight
			}
			last = e.Weight
		}
		if e.BodyFat != nil {
			s.LatestBodyFat = e.BodyFat
		}
		if e.WorkoutCompleted {
			s.TotalWorkouts++
			streak++
			if streak > s.LongestStreak {
				s.LongestStreak = streak
			}
		} else {
			streak = 0
		}
		s.TotalCalories += e.CaloriesBurned
		totalDuration += e.Duration
	}
	s.CurrentStreak = streak
	s.LatestWeight = last
	if first != nil && last != nil {
		s.WeightChange = *last - *first
	}
	s.AvgDuration = float64(totalDuration) / float64(len(entries))
	return s
}

// GoalProgress returns the percent towards the profile goal, capped at 100.
func GoalProgress(goal string, s ProgressStats) float64 {
	var pct float64
	switch goal {
	case "weight-loss":
		pct = math.Abs(s.WeightChange) / 10 * 100
	case "muscle-gain":
		pct = math.Abs(s.WeightChange) / 5 * 100
	case "strength":
		pct = float64(s.TotalWorkouts) / 20 * 100
	default:
		pct = float64(s.TotalWorkouts) / 15 * 100
	}
	return math.Min(pct, 100)
}

// Achievement is a badge with its unlock progress.
type Achievement struct {
	Title       string
	Description string
	Current     int
	Target      int
}

func (a Achievement) Unlocked() bool {
	return a.Current >= a.Target
}

// Percent is the progress towards the badge, capped at 100.
func (a Achievement) Percent() float64 {
	if a.Target <= 0 {
		return 100
	}
	return math.Min(float64(a.Current)/float64(a.Target)*100, 100)
}

// Achievements evaluates the badges against the stats.
func Achievements(s ProgressStats) []Achievement {
	return []Achievement{
		{
			Title:       "First Workout",
			Description: "Completed your first workout session",
			Current:     min(s.TotalWorkouts, 1),
			Target:      1,
		},
		{
			Title:       "Consistency King",
			Description: fmt.Sprintf("Worked out %d times in a row", consistencyStreak),
			Current:     min(s.LongestStreak, consistencyStreak),
			Target:      consistencyStreak,
		},
		{
			Title:       "Calorie Crusher",
			Description: fmt.Sprintf("Burn %d calories in total", calorieCrusherTarget),
			Current:     s.TotalCalories,
			Target:      calorieCrusherTarget,
		},
	}
}

// ProgressTracker reads and extends the progress log.
type ProgressTracker struct {
	store *data.ProgressStore
}

func NewProgressTracker(store *data.ProgressStore) *ProgressTracker {
	return &ProgressTracker{store: store}
}

func (t *ProgressTracker) Entries() ([]data.ProgressEntry, error) {
	return t.store.Load()
}

// Stats loads the log and computes its stats.
func (t *ProgressTracker) Stats() (ProgressStats, []data.ProgressEntry, error) {
	entries, err := t.store.Load()
	if err != nil {
		return ProgressStats{}, nil, err
	}
	return ComputeStats(entries), entries, nil
}

// Add validates and stores an entry. An empty date means today.
func (t *ProgressTracker) Add(entry data.ProgressEntry) (data.ProgressEntry, error) {
	if entry.Date == "" {
		entry.Date = time.Now().Format(data.DateLayout)
	}
	if _, err := time.Parse(data.DateLayout, entry.Date); err != nil {
		return entry, fmt.Errorf("invalid date '%s', expected YYYY-MM-DD", entry.Date)
	}
	if entry.Weight != nil && *entry.Weight <= 0 {
		return entry, fmt.Errorf("weight must be positive")
	}
	if entry.BodyFat != nil && (*entry.BodyFat <= 0 || *entry.BodyFat >= 100) {
		return entry, fmt.Errorf("body fat must be between 0 and 100 percent")
	}
	if entry.CaloriesBurned < 0 || entry.Duration < 0 {
		return entry, fmt.Errorf("calories and duration cannot be negative")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if _, err := t.store.Append(entry); err != nil {
		return entry, err
	}
	Debugf("Logged progress entry %s for %s", entry.ID, entry.Date)
	return entry, nil
}
