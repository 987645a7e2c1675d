package service

import (
	"testing"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *ProfileDraft {
	d := NewProfileDraft()
	d.Name = " Sam "
	d.Age = "29"
	d.Goal = "endurance"
	d.FitnessLevel = "intermediate"
	d.Minutes = 45
	d.Equipment = []string{"Yoga Mat"}
	d.DietaryPreferences = []string{"Vegan"}
	return d
}

func TestProfileDraftSteps(t *testing.T) {
	d := NewProfileDraft()
	assert.Equal(t, DefaultMinutes, d.Minutes)
	assert.False(t, d.StepReady(StepAboutYou))
	assert.False(t, d.StepReady(StepGoal))
	assert.False(t, d.StepReady(StepLevel))
	assert.True(t, d.StepReady(StepTime))
	assert.True(t, d.StepReady(StepEquipment), "equipment is optional")
	assert.True(t, d.StepReady(StepRestrictions))

	d.Name = "Sam"
	d.Age = "abc"
	assert.False(t, d.StepReady(StepAboutYou))
	d.Age = "29"
	assert.True(t, d.StepReady(StepAboutYou))

	d.Goal = "get-huge"
	assert.False(t, d.StepReady(StepGoal))

	d.Equipment = []string{"Rowing Machine"}
	assert.False(t, d.StepReady(StepEquipment))
}

func TestProfileDraftToProfile(t *testing.T) {
	p, err := validDraft().Profile()
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, 29, p.Age)
	assert.Equal(t, 45, p.Minutes)
	assert.False(t, p.CreatedAt.IsZero())

	d := validDraft()
	d.Minutes = 50
	_, err = d.Profile()
	assert.ErrorContains(t, err, "step 4")

	back := DraftFromProfile(p)
	assert.Equal(t, "29", back.Age)
	assert.Equal(t, p.Equipment, back.Equipment)
	assert.Equal(t, DefaultMinutes, DraftFromProfile(nil).Minutes)
}

func TestValidators(t *testing.T) {
	for _, age := range []string{"1", "35", "120"} {
		assert.NoError(t, ValidateAge(age), age)
	}
	for _, age := range []string{"", "0", "-3", "121", "2.5"} {
		assert.Error(t, ValidateAge(age), age)
	}
	assert.Equal(t, []int{15, 30, 45, 60, 75, 90, 105, 120}, MinuteChoices())
	for _, m := range MinuteChoices() {
		assert.NoError(t, ValidateMinutes(m))
	}
	assert.Error(t, ValidateMinutes(10))
	assert.Error(t, ValidateMinutes(135))
}

func TestOnboardingProgress(t *testing.T) {
	assert.Equal(t, 16, OnboardingProgress(StepAboutYou))
	assert.Equal(t, 50, OnboardingProgress(StepLevel))
	assert.Equal(t, 100, OnboardingProgress(StepRestrictions))
	assert.Equal(t, 100, OnboardingProgress(99))
	assert.Equal(t, 16, OnboardingProgress(-1))
}

func TestToggle(t *testing.T) {
	list := Toggle(nil, "Dumbbells")
	list = Toggle(list, "Barbell")
	assert.Equal(t, []string{"Dumbbells", "Barbell"}, list)
	list = Toggle(list, "Dumbbells")
	assert.Equal(t, []string{"Barbell"}, list)
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, "Build muscle", LabelFor(GoalOptions, "muscle-gain"))
	assert.Equal(t, "custom", LabelFor(GoalOptions, "custom"))
}

func TestSystemPromptAndGreeting(t *testing.T) {
	assert.Equal(t, basePrompt, SystemPrompt(nil))

	p := &data.UserProfile{Name: "Lee", Age: 41, Goal: "weight-loss", Restrictions: []string{"Back Issues"}}
	prompt := SystemPrompt(p)
	assert.Contains(t, prompt, "- Name: Lee")
	assert.Contains(t, prompt, "- Goal: Lose weight")
	assert.Contains(t, prompt, "- Equipment: none")
	assert.Contains(t, prompt, "Back Issues")
	assert.Contains(t, prompt, "adapt exercises")

	assert.Contains(t, Greeting(p), "Hi Lee!")
	assert.Contains(t, Greeting(nil), "Hi! I'm FitBot")
}
