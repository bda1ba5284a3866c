package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
	"google.golang.org/api/option"
)

type Provider struct {
	client *genai.Client
}

func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &Provider{
		client: client,
	}, nil
}

// Invoke implements adapters.ContractAdapter. Prior turns become chat
// history; the last message is sent as the live prompt.
func (p *Provider) Invoke(ctx context.Context, model string, msgs []adapters.ContractMessage) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	gm := p.client.GenerativeModel(model)
	cs := gm.StartChat()
	for _, msg := range msgs[:len(msgs)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  convertRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(msgs[len(msgs)-1].Content))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates received")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			responseText += string(textPart)
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("empty response received")
	}
	return responseText, nil
}

// Gemini only understands "user" and "model" roles.
func convertRole(role adapters.MsgRole) string {
	if role == adapters.ASSISTANT {
		return "model"
	}
	return "user"
}

func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
