package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/google/uuid"
)

const WaterGoalGlasses = 8

// NutritionGoals are daily targets. Macros are grams.
type NutritionGoals struct {
	Calories int
	Protein  int
	Carbs    int
	Fat      int
	Water    int
}

// CalculateGoals derives targets from the profile goal.
func CalculateGoals(p *data.UserProfile) NutritionGoals {
	base := 2100
	if p != nil {
		switch p.Goal {
		case "weight-loss":
			base = 1800
		case "muscle-gain":
			base = 2400
		}
	}
	kcal := float64(base)
	return NutritionGoals{
		Calories: base,
		Protein:  int(math.Round(kcal * 0.25 / 4)),
		Carbs:    int(math.Round(kcal * 0.45 / 4)),
		Fat:      int(math.Round(kcal * 0.30 / 9)),
		Water:    WaterGoalGlasses,
	}
}

// NewMealEntry scales food by servings. Calories round to whole numbers and
// macros to one decimal.
func NewMealEntry(food data.FoodItem, servings float64, mealType data.MealType) (data.MealEntry, error) {
	if servings <= 0 || math.IsNaN(servings) || math.IsInf(servings, 0) {
		return data.MealEntry{}, fmt.Errorf("servings must be a positive number")
	}
	return data.MealEntry{
		ID:       uuid.NewString(),
		FoodID:   food.ID,
		FoodName: food.Name,
		Servings: servings,
		Calories: math.Round(food.Calories * servings),
		Protein:  round1(food.Protein * servings),
		Carbs:    round1(food.Carbs * servings),
		Fat:      round1(food.Fat * servings),
		MealType: mealType,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MacroTotals sums nutrients.
type MacroTotals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

func (t MacroTotals) add(m data.MealEntry) MacroTotals {
	t.Calories += m.Calories
	t.Protein += m.Protein
	t.Carbs += m.Carbs
	t.Fat += m.Fat
	return t
}

// Totals sums all meals.
func Totals(meals []data.MealEntry) MacroTotals {
	var t MacroTotals
	for _, m := range meals {
		t = t.add(m)
	}
	return t
}

// MealsByType filters meals to one slot.
func MealsByType(meals []data.MealEntry, mealType data.MealType) []data.MealEntry {
	var out []data.MealEntry
	for _, m := range meals {
		if m.MealType == mealType {
			out = append(out, m)
		}
	}
	return out
}

// Remaining reports what is left of each goal; negative means over.
func (g NutritionGoals) Remaining(t MacroTotals) MacroTotals {
	return MacroTotals{
		Calories: float64(g.Calories) - t.Calories,
		Protein:  float64(g.Protein) - t.Protein,
		Carbs:    float64(g.Carbs) - t.Carbs,
		Fat:      float64(g.Fat) - t.Fat,
	}
}

// MacroCalories splits energy by macro: 4 kcal/g protein and carbs, 9 kcal/g fat.
type MacroCalories struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

func Distribution(t MacroTotals) MacroCalories {
	return MacroCalories{Protein: t.Protein * 4, Carbs: t.Carbs * 4, Fat: t.Fat * 9}
}

// MealSuggestion is a canned meal idea.
type MealSuggestion struct {
	Name     string
	Foods    []string
	Calories int
	Protein  int
}

// Suggestions adapts meal ideas to dietary preferences.
func Suggestions(p *data.UserProfile) []MealSuggestion {
	vegan := p != nil && p.HasDiet("Vegan")
	vegetarian := vegan || (p != nil && p.HasDiet("Vegetarian"))

	breakfast := []string{"Greek Yogurt", "Oatmeal", "Banana"}
	if vegan {
		breakfast = []string{"Oatmeal", "Almonds", "Banana"}
	}
	lunch := []string{"Chicken Breast", "Brown Rice", "Broccoli"}
	dinner := []string{"Salmon", "Broccoli", "Sweet Potato"}
	if vegetarian {
		lunch = []string{"Sweet Potato", "Spinach", "Almonds"}
		dinner = []string{"Spinach", "Sweet Potato", "Greek Yogurt"}
	}
	return []MealSuggestion{
		{Name: "High Protein Breakfast", Foods: breakfast, Calories: 350, Protein: 20},
		{Name: "Balanced Lunch", Foods: lunch, Calories: 450, Protein: 35},
		{Name: "Light Dinner", Foods: dinner, Calories: 400, Protein: 30},
	}
}

// SearchFoods matches food names case-insensitively. An empty query matches all.
func SearchFoods(query string) []data.FoodItem {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []data.FoodItem
	for _, f := range data.Foods() {
		if query == "" || strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
		}
	}
	return out
}

// ResolveFood finds a food by ID or unique name fragment.
func ResolveFood(ref string) (data.FoodItem, error) {
	if f, ok := data.FindFood(ref); ok {
		return f, nil
	}
	matches := SearchFoods(ref)
	for _, f := range matches {
		if strings.EqualFold(f.Name, strings.TrimSpace(ref)) {
			return f, nil
		}
	}
	switch len(matches) {
	case 0:
		return data.FoodItem{}, fmt.Errorf("no food matches '%s'", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, f := range matches {
			names[i] = f.Name
		}
		return data.FoodItem{}, fmt.Errorf("'%s' is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

// DaySummary is one row of the weekly view.
type DaySummary struct {
	Date   string
	Day    string
	Totals MacroTotals
	Water  int
}

// NutritionTracker reads and updates the meal log.
type NutritionTracker struct {
	store *data.MealStore
	now   func() time.Time
}

func NewNutritionTracker(store *data.MealStore) *NutritionTracker {
	return &NutritionTracker{store: store, now: time.Now}
}

func (t *NutritionTracker) today() string {
	return t.now().Format(data.DateLayout)
}

// Today returns today's log.
func (t *NutritionTracker) Today() (*data.DayLog, error) {
	log, err := t.store.Load(t.today())
	if err != nil {
		return nil, err
	}
	return log.Day(t.today()), nil
}

// AddFood logs servings of food to today's slot.
func (t *NutritionTracker) AddFood(food data.FoodItem, servings float64, mealType data.MealType) (data.MealEntry, error) {
	entry, err := NewMealEntry(food, servings, mealType)
	if err != nil {
		return entry, err
	}
	today := t.today()
	_, err = t.store.Update(today, func(log data.MealLog) error {
		day := log.Day(today)
		day.Meals = append(day.Meals, entry)
		return nil
	})
	if err != nil {
		return entry, err
	}
	Debugf("Logged %.1f x %s to %s", servings, food.Name, mealType)
	return entry, nil
}

// RemoveMeal deletes an entry from today's log by ID.
func (t *NutritionTracker) RemoveMeal(id string) error {
	today := t.today()
	_, err := t.store.Update(today, func(log data.MealLog) error {
		day := log.Day(today)
		for i, m := range day.Meals {
			if m.ID == id {
				day.Meals = append(day.Meals[:i], day.Meals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("no meal with id '%s' logged today", id)
	})
	return err
}

// AddWater changes today's glasses by delta, clamped to 0..goal.
func (t *NutritionTracker) AddWater(delta int) (int, error) {
	today := t.today()
	glasses := 0
	_, err := t.store.Update(today, func(log data.MealLog) error {
		day := log.Day(today)
		day.Water = max(0, min(day.Water+delta, WaterGoalGlasses))
		glasses = day.Water
		return nil
	})
	return glasses, err
}

// Weekly summarises the last seven days ending today, oldest first.
func (t *NutritionTracker) Weekly() ([]DaySummary, error) {
	log, err := t.store.Load(t.today())
	if err != nil {
		return nil, err
	}
	now := t.now()
	out := make([]DaySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := d.Format(data.DateLayout)
		row := DaySummary{Date: key, Day: d.Format("Mon")}
		if day, ok := log[key]; ok && day != nil {
			row.Totals = Totals(day.Meals)
			row.Water = day.Water
		}
		out = append(out, row)
	}
	return out, nil
}
