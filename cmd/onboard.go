package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var onboardFlags struct {
	name         string
	age          int
	goal         string
	level        string
	minutes      int
	equipment    []string
	restrictions []string
	diet         []string
}

// equipmentNotes describe what each choice unlocks in the generated workouts.
var equipmentNotes = map[string]string{
	service.BodyweightOnly: "**Bodyweight only.** Workouts use push-ups, squats, lunges and planks. No gear needed.",
	"Dumbbells":            "**Dumbbells** unlock dumbbell presses, rows and goblet squats in the strength plan.",
	"Resistance Bands":     "**Resistance bands** are great for warm-ups and joint-friendly accessory work.",
	"Pull-up Bar":          "**Pull-up bar** adds vertical pulling for back and biceps.",
	"Kettlebells":          "**Kettlebells** add swings and carries for power and conditioning.",
	"Barbell":              "**Barbell** enables heavy compound lifts for strength goals.",
	"Gym Access":           "**Gym access** means machines and cardio equipment are available.",
	"Yoga Mat":             "**Yoga mat** for floor work, stretching and core sessions.",
}

func init() {
	rootCmd.AddCommand(onboardCmd)
	f := onboardCmd.Flags()
	f.StringVar(&onboardFlags.name, "name", "", "Your name")
	f.IntVar(&onboardFlags.age, "age", 0, "Your age in years")
	f.StringVar(&onboardFlags.goal, "goal", "", "Main goal: weight-loss, muscle-gain, strength, endurance, general-fitness, flexibility")
	f.StringVar(&onboardFlags.level, "level", "", "Fitness level: beginner, intermediate, advanced")
	f.IntVar(&onboardFlags.minutes, "minutes", service.DefaultMinutes, "Minutes per workout (15-120 in steps of 15)")
	f.StringSliceVar(&onboardFlags.equipment, "equipment", nil, "Available equipment (repeatable)")
	f.StringSliceVar(&onboardFlags.restrictions, "restrictions", nil, "Physical restrictions (repeatable)")
	f.StringSliceVar(&onboardFlags.diet, "diet", nil, "Dietary preferences (repeatable)")
}

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Aliases: []string{"setup"},
	Short:   "Tell FitBot about yourself",
	Long: `Walk through six short steps so workouts, meal ideas and coaching adapt to you.
Run it again any time to update your answers.

Without a terminal, pass every answer as flags:
  fitbot onboard --name Sam --age 30 --goal strength --level beginner --minutes 45 --equipment Dumbbells`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewProfileStore()
		existing, err := loadProfile()
		if err != nil {
			service.Warnf("Ignoring unreadable profile: %v", err)
		}

		var draft *service.ProfileDraft
		if onboardFlagsGiven(cmd) {
			draft = draftFromFlags(existing)
		} else {
			if !ui.IsInteractive() {
				return fmt.Errorf("onboarding needs an interactive terminal or flags, see 'fitbot onboard --help'")
			}
			draft = service.DraftFromProfile(existing)
			if err := runOnboardingForm(draft); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Println("Onboarding cancelled.")
					return nil
				}
				return err
			}
		}

		profile, err := draft.Profile()
		if err != nil {
			return err
		}
		if existing != nil && !existing.CreatedAt.IsZero() {
			profile.CreatedAt = existing.CreatedAt
		}
		if err := store.Save(profile); err != nil {
			return err
		}
		fmt.Printf("%sProfile saved.%s Welcome aboard, %s!\n", data.StatusSuccessColor, data.ResetSeq, profile.Name)
		fmt.Printf("Next: %sfitbot workout list%s or %sfitbot chat%s\n", data.KeyColor, data.ResetSeq, data.KeyColor, data.ResetSeq)
		return nil
	},
}

func onboardFlagsGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"name", "age", "goal", "level", "minutes", "equipment", "restrictions", "diet"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func draftFromFlags(existing *data.UserProfile) *service.ProfileDraft {
	d := service.DraftFromProfile(existing)
	if onboardFlags.name != "" {
		d.Name = onboardFlags.name
	}
	if onboardFlags.age != 0 {
		d.Age = strconv.Itoa(onboardFlags.age)
	}
	if onboardFlags.goal != "" {
		d.Goal = onboardFlags.goal
	}
	if onboardFlags.level != "" {
		d.FitnessLevel = onboardFlags.level
	}
	if onboardFlags.minutes != 0 {
		d.Minutes = onboardFlags.minutes
	}
	if onboardFlags.equipment != nil {
		d.Equipment = onboardFlags.equipment
	}
	if onboardFlags.restrictions != nil {
		d.Restrictions = onboardFlags.restrictions
	}
	if onboardFlags.diet != nil {
		d.DietaryPreferences = onboardFlags.diet
	}
	return d
}

func stepDescription(step int) string {
	return fmt.Sprintf("Step %d of %d  %s", step+1, service.OnboardingSteps, progressBar(float64(service.OnboardingProgress(step)), 20))
}

func huhOptions(options []service.Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(options))
	for i, o := range options {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

func runOnboardingForm(d *service.ProfileDraft) error {
	minuteOptions := make([]huh.Option[int], 0, len(service.MinuteChoices()))
	for _, m := range service.MinuteChoices() {
		minuteOptions = append(minuteOptions, huh.NewOption(fmt.Sprintf("%d minutes", m), m))
	}

	equipment := huh.NewMultiSelect[string]().
		Title("Equipment").
		Options(huh.NewOptions(service.EquipmentOptions...)...).
		Value(&d.Equipment)
	equipmentNote := ui.GetDynamicHuhNote("", equipment, func(item string) string {
		if note, ok := equipmentNotes[item]; ok {
			return note
		}
		return "Select everything you can use."
	})

	form := huh.NewForm(
		huh.NewGroup(
			ui.GetStaticHuhNote(service.StepTitles[service.StepAboutYou], "I'm your AI fitness coach. Let's personalize your experience."),
			huh.NewInput().
				Title("What's your name?").
				Value(&d.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("How old are you?").
				Value(&d.Age).
				Validate(service.ValidateAge),
		).Description(stepDescription(service.StepAboutYou)),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title(service.StepTitles[service.StepGoal]).
				Options(huhOptions(service.GoalOptions)...).
				Value(&d.Goal),
		).Description(stepDescription(service.StepGoal)),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title(service.StepTitles[service.StepLevel]).
				Options(huhOptions(service.LevelOptions)...).
				Value(&d.FitnessLevel),
		).Description(stepDescription(service.StepLevel)),

		huh.NewGroup(
			huh.NewSelect[int]().
				Title(service.StepTitles[service.StepTime]).
				Description("Minutes per workout").
				Options(minuteOptions...).
				Value(&d.Minutes),
		).Description(stepDescription(service.StepTime)),

		huh.NewGroup(
			equipment.Title(service.StepTitles[service.StepEquipment]),
			equipmentNote,
		).Description(stepDescription(service.StepEquipment)),

		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Physical restrictions").
				Options(huh.NewOptions(service.RestrictionOptions...)...).
				Value(&d.Restrictions),
			huh.NewMultiSelect[string]().
				Title("Dietary preferences").
				Options(huh.NewOptions(service.DietOptions...)...).
				Value(&d.DietaryPreferences),
		).Title(service.StepTitles[service.StepRestrictions]).Description(stepDescription(service.StepRestrictions)),
	).WithKeyMap(ui.GetHuhKeyMap())

	if err := form.Run(); err != nil {
		return err
	}
	return d.Validate()
}
