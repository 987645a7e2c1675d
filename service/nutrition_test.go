package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGoals(t *testing.T) {
	tests := []struct {
		goal     string
		calories int
		protein  int
		carbs    int
		fat      int
	}{
		{"weight-loss", 1800, 113, 203, 60},
		{"muscle-gain", 2400, 150, 270, 80},
		{"strength", 2100, 131, 236, 70},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			g := CalculateGoals(&data.UserProfile{Goal: tt.goal})
			assert.Equal(t, tt.calories, g.Calories)
			assert.Equal(t, tt.protein, g.Protein)
			assert.Equal(t, tt.carbs, g.Carbs)
			assert.Equal(t, tt.fat, g.Fat)
			assert.Equal(t, WaterGoalGlasses, g.Water)
		})
	}
	assert.Equal(t, 2100, CalculateGoals(nil).Calories)
}

func TestNewMealEntryScales(t *testing.T) {
	salmon, ok := data.FindFood("4")
	require.True(t, ok)

	m, err := NewMealEntry(salmon, 1.5, data.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, 312.0, m.Calories)
	assert.Equal(t, 33.0, m.Protein)
	assert.Equal(t, 0.0, m.Carbs)
	assert.Equal(t, 19.5, m.Fat)
	assert.Equal(t, "Salmon", m.FoodName)
	assert.NotEmpty(t, m.ID)

	for _, bad := range []float64{0, -1} {
		_, err := NewMealEntry(salmon, bad, data.MealDinner)
		assert.Error(t, err)
	}
}

func TestTotalsAndRemaining(t *testing.T) {
	meals := data.SampleDayLog().Meals
	totals := Totals(meals)
	assert.InDelta(t, 479, totals.Calories, 0.001)
	assert.InDelta(t, 44.0, totals.Protein, 0.001)

	rem := CalculateGoals(nil).Remaining(totals)
	assert.InDelta(t, 2100-479, rem.Calories, 0.001)

	assert.Len(t, MealsByType(meals, data.MealBreakfast), 2)
	assert.Empty(t, MealsByType(meals, data.MealDinner))

	d := Distribution(MacroTotals{Protein: 10, Carbs: 20, Fat: 5})
	assert.Equal(t, MacroCalories{Protein: 40, Carbs: 80, Fat: 45}, d)
}

func TestSuggestionsFollowDiet(t *testing.T) {
	omni := Suggestions(nil)
	assert.Contains(t, omni[1].Foods, "Chicken Breast")

	veg := Suggestions(&data.UserProfile{DietaryPreferences: []string{"Vegetarian"}})
	assert.NotContains(t, veg[1].Foods, "Chicken Breast")
	assert.NotContains(t, veg[2].Foods, "Salmon")
	assert.Contains(t, veg[0].Foods, "Greek Yogurt")

	vegan := Suggestions(&data.UserProfile{DietaryPreferences: []string{"Vegan"}})
	assert.NotContains(t, vegan[0].Foods, "Greek Yogurt")
	assert.NotContains(t, vegan[1].Foods, "Chicken Breast")
}

func TestResolveFood(t *testing.T) {
	f, err := ResolveFood("4")
	require.NoError(t, err)
	assert.Equal(t, "Salmon", f.Name)

	f, err = ResolveFood("sweet")
	require.NoError(t, err)
	assert.Equal(t, "Sweet Potato", f.Name)

	f, err = ResolveFood("BROCCOLI")
	require.NoError(t, err)
	assert.Equal(t, "Broccoli", f.Name)

	_, err = ResolveFood("r")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = ResolveFood("pizza")
	assert.ErrorContains(t, err, "no food matches")

	assert.Len(t, SearchFoods(""), len(data.Foods()))
}

func newTestTracker(t *testing.T, now time.Time) *NutritionTracker {
	t.Helper()
	tr := NewNutritionTracker(data.NewMealStoreAt(filepath.Join(t.TempDir(), "meals.json")))
	tr.now = func() time.Time { return now }
	return tr
}

func TestNutritionTracker(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	tr := newTestTracker(t, now)

	day, err := tr.Today()
	require.NoError(t, err)
	assert.Len(t, day.Meals, 4, "a fresh log starts with the sample day")

	banana, _ := data.FindFood("8")
	entry, err := tr.AddFood(banana, 2, data.MealSnack)
	require.NoError(t, err)

	day, err = tr.Today()
	require.NoError(t, err)
	require.Len(t, day.Meals, 5)
	assert.Equal(t, entry.ID, day.Meals[4].ID)

	require.NoError(t, tr.RemoveMeal(entry.ID))
	assert.Error(t, tr.RemoveMeal(entry.ID))
	day, _ = tr.Today()
	assert.Len(t, day.Meals, 4)

	glasses, err := tr.AddWater(5)
	require.NoError(t, err)
	assert.Equal(t, WaterGoalGlasses, glasses)
	glasses, err = tr.AddWater(-20)
	require.NoError(t, err)
	assert.Equal(t, 0, glasses)
}

func TestNutritionTrackerWeekly(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	tr := newTestTracker(t, now)

	oats, _ := data.FindFood("7")
	_, err := tr.AddFood(oats, 1, data.MealBreakfast)
	require.NoError(t, err)

	tr.now = func() time.Time { return now.AddDate(0, 0, 2) }
	week, err := tr.Weekly()
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, "2025-03-08", week[0].Date)
	assert.Equal(t, "2025-03-14", week[6].Date)
	assert.Equal(t, "Fri", week[6].Day)
	assert.InDelta(t, 479+68, week[4].Totals.Calories, 0.001)
	assert.Equal(t, 6, week[4].Water)
	assert.Zero(t, week[6].Totals.Calories)
}
