package service

import (
	"context"
	"fmt"

	"github.com/activebook/fitbot/data"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

// AnthropicReplier streams replies from the Anthropic Messages API.
type AnthropicReplier struct {
	client   anthropic.Client
	settings data.ReplySettings
}

func NewAnthropicReplier(settings data.ReplySettings) (*AnthropicReplier, error) {
	if err := requireKey(BackendAnthropic, settings); err != nil {
		return nil, err
	}
	opts := []option.RequestOption{
		option.WithAPIKey(settings.Key),
	}
	if settings.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(settings.Endpoint))
	}
	return &AnthropicReplier{
		client:   anthropic.NewClient(opts...),
		settings: settings,
	}, nil
}

func (r *AnthropicReplier) Name() string {
	return BackendAnthropic
}

func (r *AnthropicReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	messages := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := r.settings.MaxTokens
	if maxTokens <= 0 {
		maxTokens = data.DefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(r.settings.Model),
		Messages:  messages,
		MaxTokens: int64(maxTokens),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: system,
			Type: constant.Text("text"),
		}}
	}
	if r.settings.Temperature > 0 {
		params.Temperature = param.NewOpt(float64(r.settings.Temperature))
	}

	stream := r.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		if event.Type != "content_block_delta" {
			continue
		}
		evt := event.AsContentBlockDelta()
		if evt.Delta.Type == "text_delta" && evt.Delta.Text != "" {
			if err := emit(evt.Delta.Text); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream error: %w", err)
	}
	return nil
}
