package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DateLayout is the calendar date format used by progress entries and the meal log.
const DateLayout = "2006-01-02"

// Measurements holds body measurements in inches.
type Measurements struct {
	Chest  float64 `json:"chest,omitempty"`
	Waist  float64 `json:"waist,omitempty"`
	Hips   float64 `json:"hips,omitempty"`
	Arms   float64 `json:"arms,omitempty"`
	Thighs float64 `json:"thighs,omitempty"`
}

// ProgressEntry is one logged day. Optional values are nil when not recorded.
type ProgressEntry struct {
	ID               string        `json:"id"`
	Date             string        `json:"date"`
	Weight           *float64      `json:"weight,omitempty"`
	BodyFat          *float64      `json:"body_fat,omitempty"`
	Measurements     *Measurements `json:"measurements,omitempty"`
	WorkoutCompleted bool          `json:"workout_completed"`
	CaloriesBurned   int           `json:"calories_burned,omitempty"`
	Duration         int           `json:"duration,omitempty"`
	Notes            string        `json:"notes,omitempty"`
}

func ptr(v float64) *float64 { return &v }

// SampleProgressEntries seeds a fresh progress log.
func SampleProgressEntries() []ProgressEntry {
	return []ProgressEntry{
		{
			ID: "1", Date: "2024-01-01", Weight: ptr(180), BodyFat: ptr(18),
			Measurements:     &Measurements{Chest: 42, Waist: 34, Hips: 38, Arms: 15, Thighs: 24},
			WorkoutCompleted: true, CaloriesBurned: 350, Duration: 45,
			Notes: "Great start to the year!",
		},
		{
			ID: "2", Date: "2024-01-08", Weight: ptr(179), BodyFat: ptr(17.5),
			Measurements:     &Measurements{Chest: 42.5, Waist: 33.5, Hips: 38, Arms: 15.2, Thighs: 24.2},
			WorkoutCompleted: true, CaloriesBurned: 420, Duration: 50,
			Notes: "Feeling stronger",
		},
		{
			ID: "3", Date: "2024-01-15", Weight: ptr(178), BodyFat: ptr(17),
			Measurements:     &Measurements{Chest: 43, Waist: 33, Hips: 37.5, Arms: 15.5, Thighs: 24.5},
			WorkoutCompleted: true, CaloriesBurned: 380, Duration: 48,
			Notes: "Visible muscle definition",
		},
		{
			ID: "4", Date: "2024-01-22", Weight: ptr(177), BodyFat: ptr(16.5),
			Measurements:     &Measurements{Chest: 43.5, Waist: 32.5, Hips: 37, Arms: 15.8, Thighs: 25},
			WorkoutCompleted: true, CaloriesBurned: 450, Duration: 52,
			Notes: "Hit new PR on bench press!",
		},
	}
}

// ProgressStore provides access to progress.json.
type ProgressStore struct {
	path string
	mu   sync.Mutex
}

// NewProgressStore creates a ProgressStore at the default location.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{path: GetProgressFilePath()}
}

// NewProgressStoreAt creates a ProgressStore backed by path.
func NewProgressStoreAt(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

// Load returns all entries ordered by date. A missing file yields the sample entries.
func (s *ProgressStore) Load() ([]ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ProgressStore) load() ([]ProgressEntry, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SampleProgressEntries(), nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var entries []ProgressEntry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse progress file: %w", err)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// Append adds an entry and persists the log.
func (s *ProgressStore) Append(entry ProgressEntry) ([]ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	sortEntries(entries)
	if err := s.save(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Reset overwrites the log with the given entries.
func (s *ProgressStore) Reset(entries []ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(entries)
}

func (s *ProgressStore) save(entries []ProgressEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	return nil
}

// sortEntries orders by date; entries on the same date keep insertion order.
func sortEntries(entries []ProgressEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}
