package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/activebook/fitbot/data"
)

const (
	BackendCoach      = "coach"
	BackendOpenAI     = "openai"
	BackendAnthropic  = "anthropic"
	BackendGemini     = "gemini"
	BackendVolcengine = "volcengine"
)

// Backends lists the reply backends `serve` can front.
var Backends = []string{BackendCoach, BackendOpenAI, BackendAnthropic, BackendGemini, BackendVolcengine}

// Replier generates a reply for msgs and hands it to emit piece by piece.
// An error from emit aborts generation and is returned unchanged.
type Replier interface {
	Name() string
	StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error
}

// NewReplier builds the backend named in settings. profiles feeds the offline coach.
func NewReplier(ctx context.Context, settings data.ReplySettings, profiles ProfileSource) (Replier, error) {
	switch strings.ToLower(strings.TrimSpace(settings.Backend)) {
	case "", BackendCoach:
		return NewCoachReplier(settings.Delay, profiles), nil
	case BackendOpenAI:
		return NewOpenAIReplier(settings)
	case BackendAnthropic:
		return NewAnthropicReplier(settings)
	case BackendGemini:
		return NewGeminiReplier(ctx, settings)
	case BackendVolcengine:
		return NewVolcReplier(settings)
	default:
		return nil, fmt.Errorf("unknown reply backend '%s' (choose from %s)", settings.Backend, strings.Join(Backends, ", "))
	}
}

func requireKey(backend string, settings data.ReplySettings) error {
	if strings.TrimSpace(settings.Key) == "" {
		return fmt.Errorf("%s backend needs an API key (set %s or FITBOT_REPLY_KEY)", backend, data.KeyReplyKey)
	}
	if strings.TrimSpace(settings.Model) == "" {
		return fmt.Errorf("%s backend needs a model (set %s)", backend, data.KeyReplyModel)
	}
	return nil
}
