package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/activebook/fitbot/data"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIReplier streams replies from any OpenAI-compatible chat endpoint.
type OpenAIReplier struct {
	client   *openai.Client
	settings data.ReplySettings
}

func NewOpenAIReplier(settings data.ReplySettings) (*OpenAIReplier, error) {
	if err := requireKey(BackendOpenAI, settings); err != nil {
		return nil, err
	}
	config := openai.DefaultConfig(settings.Key)
	if settings.Endpoint != "" {
		config.BaseURL = settings.Endpoint
	}
	return &OpenAIReplier{
		client:   openai.NewClientWithConfig(config),
		settings: settings,
	}, nil
}

func (r *OpenAIReplier) Name() string {
	return BackendOpenAI
}

func (r *OpenAIReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	messages := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       r.settings.Model,
		Messages:    messages,
		Temperature: r.settings.Temperature,
		Stream:      true,
	}
	if r.settings.MaxTokens > 0 {
		req.MaxTokens = r.settings.MaxTokens
	}

	stream, err := r.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start openai stream: %w", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai stream error: %w", err)
		}
		if len(response.Choices) == 0 {
			continue
		}
		if text := response.Choices[0].Delta.Content; text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
}
