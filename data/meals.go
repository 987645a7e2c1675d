package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// MealType is one of the four daily slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the slots in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType validates a user-supplied slot name.
func ParseMealType(s string) (MealType, error) {
	for _, t := range MealTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown meal type '%s' (breakfast, lunch, dinner, snack)", s)
}

// MealEntry is a food scaled by servings. Nutrients are already scaled.
type MealEntry struct {
	ID       string   `json:"id"`
	FoodID   string   `json:"food_id"`
	FoodName string   `json:"food_name"`
	Servings float64  `json:"servings"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	MealType MealType `json:"meal_type"`
}

// DayLog is everything eaten and drunk on one date.
type DayLog struct {
	Meals []MealEntry `json:"meals"`
	Water int         `json:"water"`
}

// MealLog maps a date (DateLayout) to its day log.
type MealLog map[string]*DayLog

// Day returns the log for date, creating an empty one if needed.
func (l MealLog) Day(date string) *DayLog {
	day, ok := l[date]
	if !ok || day == nil {
		day = &DayLog{}
		l[date] = day
	}
	return day
}

// Dates returns logged dates in ascending order.
func (l MealLog) Dates() []string {
	dates := make([]string, 0, len(l))
	for d := range l {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// SampleDayLog seeds the first day of a fresh meal log.
func SampleDayLog() *DayLog {
	return &DayLog{
		Water: 6,
		Meals: []MealEntry{
			{ID: "1", FoodID: "7", FoodName: "Oatmeal", Servings: 1.5, Calories: 102, Protein: 3.6, Carbs: 18, Fat: 2.1, MealType: MealBreakfast},
			{ID: "2", FoodID: "8", FoodName: "Banana", Servings: 1, Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3, MealType: MealBreakfast},
			{ID: "3", FoodID: "1", FoodName: "Chicken Breast", Servings: 1.2, Calories: 198, Protein: 37.2, Carbs: 0, Fat: 4.3, MealType: MealLunch},
			{ID: "4", FoodID: "2", FoodName: "Brown Rice", Servings: 0.8, Calories: 90, Protein: 2.1, Carbs: 18.4, Fat: 0.7, MealType: MealLunch},
		},
	}
}

// MealStore provides access to meals.json.
type MealStore struct {
	path string
	mu   sync.Mutex
}

// NewMealStore creates a MealStore at the default location.
func NewMealStore() *MealStore {
	return &MealStore{path: GetMealLogFilePath()}
}

// NewMealStoreAt creates a MealStore backed by path.
func NewMealStoreAt(path string) *MealStore {
	return &MealStore{path: path}
}

// Load reads the log. A missing file yields a log seeded with the sample day on today.
func (s *MealStore) Load(today string) (MealLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(today)
}

func (s *MealStore) load(today string) (MealLog, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return MealLog{today: SampleDayLog()}, nil
		}
		return nil, fmt.Errorf("failed to read meal log: %w", err)
	}
	log := MealLog{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &log); err != nil {
			return nil, fmt.Errorf("failed to parse meal log: %w", err)
		}
	}
	return log, nil
}

// Update loads the log, applies fn and saves the result.
func (s *MealStore) Update(today string, fn func(MealLog) error) (MealLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(today)
	if err != nil {
		return nil, err
	}
	if err := fn(log); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create meal log directory: %w", err)
	}
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal log: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return nil, fmt.Errorf("failed to write meal log: %w", err)
	}
	return log, nil
}
