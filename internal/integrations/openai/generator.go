package openai

import (
	"context"
	"errors"
	"strings"

	"credit-agent/internal/domain"
)

// Generator binds a Client to one model so it can answer dialogue prompts.
type Generator struct {
	client *Client
	model  string
}

func NewGenerator(client *Client, model string) (*Generator, error) {
	if client == nil {
		return nil, errors.New("openai: client must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("openai: model must not be empty")
	}
	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	return g.client.Chat(ctx, g.model, messages)
}
