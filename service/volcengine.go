package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
)

const (
	volcTimeout     = 10 * time.Minute
	volcDefaultBase = "https://ark.cn-beijing.volces.com/api/v3"
)

// VolcReplier streams replies from a Volcengine Ark endpoint.
type VolcReplier struct {
	client   *arkruntime.Client
	settings data.ReplySettings
}

func NewVolcReplier(settings data.ReplySettings) (*VolcReplier, error) {
	if err := requireKey(BackendVolcengine, settings); err != nil {
		return nil, err
	}
	baseURL := settings.Endpoint
	if baseURL == "" {
		baseURL = volcDefaultBase
	}
	return &VolcReplier{
		client: arkruntime.NewClientWithApiKey(
			settings.Key,
			arkruntime.WithTimeout(volcTimeout),
			arkruntime.WithBaseUrl(baseURL),
		),
		settings: settings,
	}, nil
}

func (r *VolcReplier) Name() string {
	return BackendVolcengine
}

func volcMessages(system string, msgs []WireMessage) []*model.ChatCompletionMessage {
	messages := make([]*model.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		messages = append(messages, &model.ChatCompletionMessage{
			Role: model.ChatMessageRoleSystem,
			Content: &model.ChatCompletionMessageContent{
				StringValue: volcengine.String(system),
			},
		})
	}
	for _, m := range msgs {
		role := model.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = model.ChatMessageRoleAssistant
		}
		messages = append(messages, &model.ChatCompletionMessage{
			Role: role,
			Content: &model.ChatCompletionMessageContent{
				StringValue: volcengine.String(m.Content),
			},
		})
	}
	return messages
}

func (r *VolcReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	req := model.CreateChatCompletionRequest{
		Model:    r.settings.Model,
		Messages: volcMessages(system, msgs),
	}
	if r.settings.Temperature > 0 {
		temperature := r.settings.Temperature
		req.Temperature = &temperature
	}

	stream, err := r.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start volcengine stream: %w", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("volcengine stream error: %w", err)
		}
		if len(response.Choices) == 0 {
			continue
		}
		// Reasoning deltas are not part of the reply.
		if text := response.Choices[0].Delta.Content; text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
}
