package ollama

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
)

// Provider serves local models through a farm of ollama servers; the farm
// picks the first server that is online.
type Provider struct {
	ollamafarm *ollamafarm.Farm
}

func New(serverURLs []string) *Provider {
	farm := ollamafarm.New()

	for _, srv := range serverURLs {
		if err := farm.RegisterURL(srv, nil); err != nil {
			log.Printf("ollama server registration failed for %s: %v", srv, err)
		}
	}

	return &Provider{
		ollamafarm: farm,
	}
}

// Invoke implements adapters.ContractAdapter.
func (p *Provider) Invoke(ctx context.Context, model string, msgs []adapters.ContractMessage) (string, error) {
	ollama := p.ollamafarm.First(&ollamafarm.Where{Offline: false})
	if ollama == nil {
		return "", fmt.Errorf("no ollama server online for model %v", model)
	}

	stream := false
	req := api.ChatRequest{
		Model:    model,
		Stream:   &stream,
		Messages: convertMsgs(msgs),
	}

	var sb strings.Builder
	err := ollama.Client().Chat(ctx, &req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func convertMsgs(msgs []adapters.ContractMessage) []api.Message {
	converted := make([]api.Message, 0, len(msgs))
	for _, msg := range msgs {
		converted = append(converted, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return converted
}
