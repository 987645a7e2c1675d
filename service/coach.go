package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/activebook/fitbot/data"
)

// ProfileSource yields the current profile. ErrNoProfile is not an error for callers.
type ProfileSource interface {
	Load() (*data.UserProfile, error)
}

// CoachReplier answers from local data without any LLM. Replies are streamed
// word by word with delay between words.
type CoachReplier struct {
	delay    time.Duration
	profiles ProfileSource
}

func NewCoachReplier(delay time.Duration, profiles ProfileSource) *CoachReplier {
	return &CoachReplier{delay: delay, profiles: profiles}
}

func (r *CoachReplier) Name() string {
	return BackendCoach
}

func (r *CoachReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	question := lastUserMessage(msgs)
	reply := r.Answer(question)

	var timer *time.Timer
	for i, word := range strings.SplitAfter(reply, " ") {
		if word == "" {
			continue
		}
		if i > 0 && r.delay > 0 {
			if timer == nil {
				timer = time.NewTimer(r.delay)
				defer timer.Stop()
			} else {
				timer.Reset(r.delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := emit(word); err != nil {
			return err
		}
	}
	return nil
}

func lastUserMessage(msgs []WireMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

func (r *CoachReplier) profile() *data.UserProfile {
	if r.profiles == nil {
		return nil
	}
	p, err := r.profiles.Load()
	if err != nil {
		if !errors.Is(err, data.ErrNoProfile) {
			Warnf("Coach could not load profile: %v", err)
		}
		return nil
	}
	return p
}

type coachIntent int

const (
	intentGeneral coachIntent = iota
	intentGreeting
	intentWorkout
	intentNutrition
	intentForm
	intentMotivation
	intentProgress
)

var intentKeywords = []struct {
	intent   coachIntent
	keywords []string
}{
	{intentForm, []string{"form", "technique", "posture", "squat", "deadlift", "plank", "push-up", "pushup"}},
	{intentNutrition, []string{"eat", "food", "nutrition", "diet", "meal", "protein", "calorie", "carb", "macro"}},
	{intentWorkout, []string{"workout", "plan", "exercise", "routine", "training", "train", "program"}},
	{intentMotivation, []string{"motivat", "tired", "lazy", "give up", "hard to", "struggl"}},
	{intentProgress, []string{"progress", "weight", "plateau", "results"}},
	{intentGreeting, []string{"hello", "hi", "hey", "thanks", "thank you"}},
}

// classify matches keywords against word prefixes ("train" matches
// "training"); greetings must match whole words.
func classify(question string) coachIntent {
	q := strings.ToLower(question)
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '-')
	})
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(q, kw) {
					return group.intent
				}
				continue
			}
			for _, w := range words {
				if w == kw || (group.intent != intentGreeting && strings.HasPrefix(w, kw)) {
					return group.intent
				}
			}
		}
	}
	return intentGeneral
}

// Answer builds the full reply text for a question.
func (r *CoachReplier) Answer(question string) string {
	p := r.profile()
	name := "there"
	if p != nil && p.Name != "" {
		name = p.Name
	}

	switch classify(question) {
	case intentGreeting:
		return fmt.Sprintf("Hey %s! Ask me about workouts, nutrition, exercise form or staying motivated.", name)
	case intentWorkout:
		return workoutAnswer(name, p)
	case intentNutrition:
		return nutritionAnswer(name, p)
	case intentForm:
		return formAnswer(question)
	case intentMotivation:
		return fmt.Sprintf("You've got this, %s! Progress comes from showing up, not from perfect days. "+
			"Pick the shortest workout you can do today, set out your gear, and commit to just the first five minutes. "+
			"Momentum usually takes care of the rest.", name)
	case intentProgress:
		return "Track weight, body fat and measurements weekly rather than daily, since day-to-day numbers swing with water and food. " +
			"Log every session with `fitbot progress add` and check trends with `fitbot progress overview`. " +
			"If results stall for three weeks, adjust one variable at a time: calories, training volume or sleep."
	default:
		return fmt.Sprintf("That's a great question, %s! I can build workouts around your schedule and equipment, "+
			"suggest meals that fit your goal, and walk you through exercise form. "+
			"Try asking for a workout plan or what to eat today.", name)
	}
}

func workoutAnswer(name string, p *data.UserProfile) string {
	if p == nil {
		return "I'd love to build you a plan! Run `fitbot onboard` first so I know your goal, level and equipment. " +
			"Until then, a solid start is three full-body sessions a week: squats, push-ups and planks, 3 sets each."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's what I recommend for you, %s, with %d minutes per session:\n\n", name, p.Minutes)
	for _, w := range GenerateWorkouts(p) {
		fmt.Fprintf(&sb, "**%s** (~%d kcal)\n", w.Name, w.CaloriesBurned)
		for _, ex := range w.Exercises {
			fmt.Fprintf(&sb, "- %s: %d x %s, rest %ds\n", ex.Name, ex.Sets, ex.Reps, ex.RestSeconds)
		}
		sb.WriteString("\n")
	}
	if len(p.Restrictions) > 0 {
		fmt.Fprintf(&sb, "Since you listed %s, stop any movement that causes pain and scale the range of motion down. ", strings.Join(p.Restrictions, ", "))
	}
	sb.WriteString("Start one with `fitbot workout start <id>`.")
	return sb.String()
}

func nutritionAnswer(name string, p *data.UserProfile) string {
	goals := CalculateGoals(p)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Good thinking, %s! Your daily targets are about %d kcal with %dg protein, %dg carbs and %dg fat, plus %d glasses of water.\n\n",
		name, goals.Calories, goals.Protein, goals.Carbs, goals.Fat, goals.Water)
	sb.WriteString("Some meal ideas:\n")
	for _, s := range Suggestions(p) {
		fmt.Fprintf(&sb, "- %s: %s (%d kcal, %dg protein)\n", s.Name, strings.Join(s.Foods, ", "), s.Calories, s.Protein)
	}
	if p != nil && p.Goal == "muscle-gain" {
		sb.WriteString("\nFor muscle gain, spread protein across 3-4 meals and eat a small surplus on training days.")
	}
	return sb.String()
}

func formAnswer(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "squat"):
		return "Great squat cues:\n\n" +
			"- Feet shoulder-width apart, toes slightly out\n" +
			"- Brace your core and keep your chest up\n" +
			"- Push your hips back and let knees track over your toes\n" +
			"- Go as deep as you can with a neutral spine\n" +
			"- Drive up through your whole foot\n\n" +
			"Film a set from the side to check your depth and back angle."
	case strings.Contains(q, "push-up"), strings.Contains(q, "pushup"):
		return "For push-ups keep a straight line from head to heels, hands just outside shoulder width, " +
			"and elbows at about 45 degrees. Lower until your chest nearly touches the floor, then press back up. " +
			"Elevate your hands on a bench if full reps break your form."
	case strings.Contains(q, "plank"):
		return "Hold a plank with elbows under shoulders, squeeze your glutes, and tuck your ribs down so your lower back doesn't sag. " +
			"Quality beats duration: stop when the position breaks."
	default:
		return "Good form comes down to control: move through a full, pain-free range, brace your core, and keep the tempo slow on the way down. " +
			"Start light, master the pattern, and only then add load. Which exercise would you like cues for?"
	}
}
