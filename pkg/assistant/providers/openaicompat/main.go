package openaicompat

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
)

// Provider speaks any OpenAI-compatible chat completion endpoint. The
// deepseek and qwen families are served through compatible gateways, so one
// provider covers both router roles.
type Provider struct {
	client openai.Client
}

func New(baseURL, apiKey string) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{
		client: openai.NewClient(opts...),
	}
}

// Invoke implements adapters.ContractAdapter.
func (p *Provider) Invoke(ctx context.Context, model string, msgs []adapters.ContractMessage) (string, error) {
	convertedMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		convertedMsgs = append(convertedMsgs, convertMsg(msg))
	}
	chatCompletion, err := p.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: convertedMsgs,
			Model:    openai.ChatModel(model),
		},
	)
	if err != nil {
		return "", err
	}
	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

func convertMsg(msg adapters.ContractMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case adapters.ASSISTANT:
		return openai.AssistantMessage(msg.Content)
	case adapters.SYSTEM:
		return openai.SystemMessage(msg.Content)
	}
	return openai.UserMessage(msg.Content)
}
