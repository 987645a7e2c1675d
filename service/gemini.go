package service

import (
	"context"
	"fmt"

	"github.com/activebook/fitbot/data"
	"google.golang.org/genai"
)

// GeminiReplier streams replies from the Gemini API.
type GeminiReplier struct {
	client   *genai.Client
	settings data.ReplySettings
}

func NewGeminiReplier(ctx context.Context, settings data.ReplySettings) (*GeminiReplier, error) {
	if err := requireKey(BackendGemini, settings); err != nil {
		return nil, err
	}
	config := &genai.ClientConfig{
		APIKey:  settings.Key,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.Endpoint != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: settings.Endpoint}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiReplier{client: client, settings: settings}, nil
}

func (r *GeminiReplier) Name() string {
	return BackendGemini
}

func (r *GeminiReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	config := &genai.GenerateContentConfig{}
	if r.settings.Temperature > 0 {
		temp := r.settings.Temperature
		config.Temperature = &temp
	}
	if r.settings.MaxTokens > 0 {
		config.MaxOutputTokens = int32(r.settings.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	for resp, err := range r.client.Models.GenerateContentStream(ctx, r.settings.Model, contents, config) {
		if err != nil {
			return fmt.Errorf("gemini stream error: %w", err)
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Thought || part.Text == "" {
					continue
				}
				if err := emit(part.Text); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
