package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/activebook/fitbot/data"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

var (
	GoalOptions = []Option{
		{"weight-loss", "Lose weight"},
		{"muscle-gain", "Build muscle"},
		{"strength", "Get stronger"},
		{"endurance", "Improve endurance"},
		{"general-fitness", "General fitness"},
		{"flexibility", "Improve flexibility"},
	}
	LevelOptions = []Option{
		{"beginner", "Beginner - New to exercise"},
		{"intermediate", "Intermediate - Exercise regularly"},
		{"advanced", "Advanced - Very experienced"},
	}
	EquipmentOptions = []string{
		"None (Bodyweight)",
		"Dumbbells",
		"Resistance Bands",
		"Pull-up Bar",
		"Kettlebells",
		"Barbell",
		"Gym Access",
		"Yoga Mat",
	}
	RestrictionOptions = []string{"Back Issues", "Knee Problems", "Shoulder Issues", "Heart Condition", "Other Injuries"}
	DietOptions        = []string{"Vegetarian", "Vegan", "Keto", "Paleo", "Gluten-Free", "Dairy-Free"}
)

const (
	BodyweightOnly = "None (Bodyweight)"

	MinMinutes     = 15
	MaxMinutes     = 120
	MinutesStep    = 15
	DefaultMinutes = 30

	OnboardingSteps = 6
)

// Step indices of the onboarding wizard.
const (
	StepAboutYou = iota
	StepGoal
	StepLevel
	StepTime
	StepEquipment
	StepRestrictions
)

// StepTitles are shown above each onboarding step.
var StepTitles = [OnboardingSteps]string{
	"Welcome to FitBot!",
	"What's your main goal?",
	"What's your fitness level?",
	"How much time do you have?",
	"What equipment do you have?",
	"Any restrictions or preferences?",
}

// ProfileDraft is the onboarding form state before it becomes a profile.
// Age is kept as typed so the wizard can validate it per step.
type ProfileDraft struct {
	Name               string
	Age                string
	Goal               string
	FitnessLevel       string
	Minutes            int
	Equipment          []string
	Restrictions       []string
	DietaryPreferences []string
}

func NewProfileDraft() *ProfileDraft {
	return &ProfileDraft{Minutes: DefaultMinutes}
}

// DraftFromProfile pre-fills the wizard from a saved profile.
func DraftFromProfile(p *data.UserProfile) *ProfileDraft {
	d := NewProfileDraft()
	if p == nil {
		return d
	}
	d.Name = p.Name
	if p.Age > 0 {
		d.Age = strconv.Itoa(p.Age)
	}
	d.Goal = p.Goal
	d.FitnessLevel = p.FitnessLevel
	if p.Minutes > 0 {
		d.Minutes = p.Minutes
	}
	d.Equipment = append([]string(nil), p.Equipment...)
	d.Restrictions = append([]string(nil), p.Restrictions...)
	d.DietaryPreferences = append([]string(nil), p.DietaryPreferences...)
	return d
}

// StepReady reports whether the wizard may advance past step.
func (d *ProfileDraft) StepReady(step int) bool {
	return d.stepError(step) == nil
}

func (d *ProfileDraft) stepError(step int) error {
	switch step {
	case StepAboutYou:
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("name is required")
		}
		return ValidateAge(d.Age)
	case StepGoal:
		if !validOption(GoalOptions, d.Goal) {
			return fmt.Errorf("choose a goal: %s", optionValues(GoalOptions))
		}
	case StepLevel:
		if !validOption(LevelOptions, d.FitnessLevel) {
			return fmt.Errorf("choose a fitness level: %s", optionValues(LevelOptions))
		}
	case StepTime:
		return ValidateMinutes(d.Minutes)
	case StepEquipment:
		return validSubset("equipment", EquipmentOptions, d.Equipment)
	case StepRestrictions:
		if err := validSubset("restriction", RestrictionOptions, d.Restrictions); err != nil {
			return err
		}
		return validSubset("dietary preference", DietOptions, d.DietaryPreferences)
	}
	return nil
}

// Validate checks every step and returns the first problem.
func (d *ProfileDraft) Validate() error {
	for step := 0; step < OnboardingSteps; step++ {
		if err := d.stepError(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", step+1, StepTitles[step], err)
		}
	}
	return nil
}

// OnboardingProgress is the percent shown on the wizard bar for step (0-based).
func OnboardingProgress(step int) int {
	if step < 0 {
		step = 0
	}
	if step >= OnboardingSteps {
		step = OnboardingSteps - 1
	}
	return (step + 1) * 100 / OnboardingSteps
}

// Toggle adds item to list, or removes it if present.
func Toggle(list []string, item string) []string {
	for i, v := range list {
		if v == item {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, item)
}

// Profile converts a valid draft into a profile.
func (d *ProfileDraft) Profile() (*data.UserProfile, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	age, _ := strconv.Atoi(strings.TrimSpace(d.Age))
	return &data.UserProfile{
		Name:               strings.TrimSpace(d.Name),
		Age:                age,
		Goal:               d.Goal,
		FitnessLevel:       d.FitnessLevel,
		Minutes:            d.Minutes,
		Equipment:          append([]string(nil), d.Equipment...),
		Restrictions:       append([]string(nil), d.Restrictions...),
		DietaryPreferences: append([]string(nil), d.DietaryPreferences...),
		CreatedAt:          time.Now(),
	}, nil
}

// ValidateAge accepts a positive whole number of years.
func ValidateAge(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("age is required")
	}
	age, err := strconv.Atoi(s)
	if err != nil || age <= 0 || age > 120 {
		return fmt.Errorf("age must be a whole number between 1 and 120")
	}
	return nil
}

// ValidateMinutes accepts 15..120 in steps of 15.
func ValidateMinutes(m int) error {
	if m < MinMinutes || m > MaxMinutes || m%MinutesStep != 0 {
		return fmt.Errorf("minutes must be between %d and %d in steps of %d", MinMinutes, MaxMinutes, MinutesStep)
	}
	return nil
}

// MinuteChoices lists the valid session lengths.
func MinuteChoices() []int {
	var out []int
	for m := MinMinutes; m <= MaxMinutes; m += MinutesStep {
		out = append(out, m)
	}
	return out
}

// LabelFor returns the display label of value, or value itself.
func LabelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func validOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func optionValues(options []Option) string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return strings.Join(values, ", ")
}

func validSubset(kind string, allowed, chosen []string) error {
	for _, c := range chosen {
		found := false
		for _, a := range allowed {
			if a == c {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown %s '%s'", kind, c)
		}
	}
	return nil
}
