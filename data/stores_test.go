package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProfileStore(t *testing.T) {
	store := NewProfileStoreAt(filepath.Join(t.TempDir(), "nested", "profile.yaml"))

	if store.Exists() {
		t.Fatal("expected no profile before saving")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("Load() error = %v, want ErrNoProfile", err)
	}

	want := &UserProfile{
		Name:               "Sam",
		Age:                31,
		Goal:               "strength",
		FitnessLevel:       "beginner",
		Minutes:            45,
		Equipment:          []string{"Dumbbells", "Yoga Mat"},
		DietaryPreferences: []string{"Vegan"},
		CreatedAt:          time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Name != want.Name || got.Age != want.Age || got.Minutes != want.Minutes || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if !got.HasEquipment("Yoga Mat") || got.HasEquipment("Barbell") {
		t.Errorf("HasEquipment mismatch for %v", got.Equipment)
	}
	if !got.HasDiet("Vegan") || got.HasRestriction("Back Issues") {
		t.Errorf("unexpected diet/restrictions: %v %v", got.DietaryPreferences, got.Restrictions)
	}

	if err := store.Save(nil); err == nil {
		t.Error("Save(nil) should fail")
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestProfileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewProfileStoreAt(path).Load()
	if err == nil || errors.Is(err, ErrNoProfile) {
		t.Errorf("Load() error = %v, want a parse error", err)
	}
}

func TestProgressStore(t *testing.T) {
	store := NewProgressStoreAt(filepath.Join(t.TempDir(), "progress.json"))

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(SampleProgressEntries()) {
		t.Fatalf("fresh log has %d entries, want the %d samples", len(entries), len(SampleProgressEntries()))
	}

	if err := store.Reset(nil); err != nil {
		t.Fatal(err)
	}
	w := 170.2
	for _, e := range []ProgressEntry{
		{ID: "b", Date: "2025-01-09"},
		{ID: "a", Date: "2025-01-02", Weight: &w},
		{ID: "c", Date: "2025-01-09"},
	} {
		if _, err := store.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	var ids string
	for _, e := range entries {
		ids += e.ID
	}
	if ids != "abc" {
		t.Errorf("entries in order %q, want %q", ids, "abc")
	}
	if entries[0].Weight == nil || *entries[0].Weight != w {
		t.Errorf("weight not preserved: %v", entries[0].Weight)
	}
	if entries[1].Weight != nil {
		t.Errorf("absent weight should stay nil, got %v", *entries[1].Weight)
	}
}

func TestMealStore(t *testing.T) {
	store := NewMealStoreAt(filepath.Join(t.TempDir(), "meals.json"))
	const today = "2025-03-12"

	log, err := store.Load(today)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.Day(today).Meals) != len(SampleDayLog().Meals) {
		t.Fatalf("fresh log should hold the sample day")
	}

	_, err = store.Update("2025-03-13", func(l MealLog) error {
		l.Day("2025-03-13").Water = 3
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	log, err = store.Load("2025-03-13")
	if err != nil {
		t.Fatal(err)
	}
	dates := log.Dates()
	if len(dates) != 1 || dates[0] != "2025-03-13" {
		t.Errorf("Dates() = %v", dates)
	}
	if log["2025-03-13"].Water != 3 {
		t.Errorf("water = %d, want 3", log["2025-03-13"].Water)
	}

	failing := errors.New("nope")
	if _, err := store.Update(today, func(MealLog) error { return failing }); !errors.Is(err, failing) {
		t.Errorf("Update() error = %v, want %v", err, failing)
	}
}

func TestParseMealType(t *testing.T) {
	for _, mt := range MealTypes {
		got, err := ParseMealType(string(mt))
		if err != nil || got != mt {
			t.Errorf("ParseMealType(%q) = %q, %v", mt, got, err)
		}
	}
	if _, err := ParseMealType("brunch"); err == nil {
		t.Error("ParseMealType(brunch) should fail")
	}
}

func TestFoods(t *testing.T) {
	foods := Foods()
	foods[0].Name = "changed"
	if f, ok := FindFood("1"); !ok || f.Name != "Chicken Breast" {
		t.Errorf("FindFood(1) = %+v, %v", f, ok)
	}
	if _, ok := FindFood("999"); ok {
		t.Error("FindFood(999) should miss")
	}
}

func TestConversationStore(t *testing.T) {
	store := NewConversationStoreAt(filepath.Join(t.TempDir(), "convo"))

	names, err := store.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("List() on missing dir = %v, %v", names, err)
	}

	first := &Transcript{Name: "leg/day", SavedAt: time.Now(), Turns: []TranscriptTurn{
		{Role: "user", Content: "squat tips?"},
		{Role: "assistant", Content: "Sorry", Failed: true},
	}}
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(&Transcript{Name: "  "}); err == nil {
		t.Error("Save() without a name should fail")
	}

	later := time.Now().Add(time.Minute)
	if err := store.Save(&Transcript{Name: "meals"}); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(filepath.Join(store.GetDir(), "meals.json"), later, later); err != nil {
		t.Fatal(err)
	}

	names, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "meals" || names[1] != "leg_day" {
		t.Errorf("List() = %v, want [meals leg_day]", names)
	}

	got, err := store.Load("leg/day")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Turns) != 2 || !got.Turns[1].Failed {
		t.Errorf("Load() turns = %+v", got.Turns)
	}
	if !store.Exists("meals") {
		t.Error("Exists(meals) = false")
	}
	if err := store.Delete("meals"); err != nil {
		t.Fatal(err)
	}
	if store.Exists("meals") {
		t.Error("meals still exists after Delete")
	}
	if _, err := store.Load("meals"); err == nil {
		t.Error("Load() of a deleted transcript should fail")
	}
}
