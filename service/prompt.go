package service

import (
	"fmt"
	"strings"

	"github.com/activebook/fitbot/data"
)

// QuickQuestions are offered in the chat view while the history is short.
var QuickQuestions = []string{
	"Create a workout plan for me",
	"What should I eat for muscle gain?",
	"How do I improve my squat form?",
}

// quickQuestionTurns is the longest history that still offers quick
// questions: the greeting plus one exchange.
const quickQuestionTurns = 3

// ShowQuickQuestions reports whether the chat view should still offer them.
func ShowQuickQuestions(c *Conversation) bool {
	return c.Len() <= quickQuestionTurns
}

// Greeting is the first assistant turn of every chat.
func Greeting(p *data.UserProfile) string {
	who := ""
	if p != nil && strings.TrimSpace(p.Name) != "" {
		who = " " + strings.TrimSpace(p.Name)
	}
	return fmt.Sprintf("Hi%s! I'm FitBot, your AI fitness companion. I'm here to help you with workouts, nutrition, form tips, and motivation. What would you like to know?", who)
}

// NewChat starts a conversation seeded with the greeting.
func NewChat(p *data.UserProfile) *Conversation {
	c := NewConversation()
	c.Seed(RoleAssistant, Greeting(p))
	return c
}

const basePrompt = `You are FitBot, a friendly and knowledgeable AI fitness coach.
Give practical, safe advice on workouts, exercise form, nutrition and motivation.
Keep answers concise and encouraging, use short markdown lists where helpful,
and recommend seeing a professional for medical concerns.`

// SystemPrompt tailors the coach persona to the profile.
func SystemPrompt(p *data.UserProfile) string {
	if p == nil {
		return basePrompt
	}
	var sb strings.Builder
	sb.WriteString(basePrompt)
	sb.WriteString("\n\nAbout the user:\n")
	if p.Name != "" {
		fmt.Fprintf(&sb, "- Name: %s\n", p.Name)
	}
	if p.Age > 0 {
		fmt.Fprintf(&sb, "- Age: %d\n", p.Age)
	}
	if p.Goal != "" {
		fmt.Fprintf(&sb, "- Goal: %s\n", LabelFor(GoalOptions, p.Goal))
	}
	if p.FitnessLevel != "" {
		fmt.Fprintf(&sb, "- Fitness level: %s\n", p.FitnessLevel)
	}
	if p.Minutes > 0 {
		fmt.Fprintf(&sb, "- Time per session: %d minutes\n", p.Minutes)
	}
	fmt.Fprintf(&sb, "- Equipment: %s\n", listOrNone(p.Equipment))
	fmt.Fprintf(&sb, "- Restrictions: %s\n", listOrNone(p.Restrictions))
	fmt.Fprintf(&sb, "- Dietary preferences: %s\n", listOrNone(p.DietaryPreferences))
	if len(p.Restrictions) > 0 {
		sb.WriteString("\nAlways adapt exercises to the listed restrictions.")
	}
	return sb.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
