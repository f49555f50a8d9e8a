package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"credit-agent/internal/domain"
)

const DefaultModel = "gemini-1.5-flash"

// contentGenerator is the part of *genai.GenerativeModel the Generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ErrBlocked is returned when Gemini withholds an answer on safety grounds.
var ErrBlocked = errors.New("gemini: response blocked by safety filter")

// Generator answers dialogue prompts with a Gemini model.
type Generator struct {
	client *genai.Client
	model  contentGenerator
}

// New dials Gemini with apiKey. Close releases the underlying connection.
func New(ctx context.Context, apiKey, modelName string, temperature float32) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)

	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Generate flattens the conversation into labelled text parts. The final
// user message goes last and unlabelled so the model treats it as the query.
func (g *Generator) Generate(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	parts := toParts(messages)
	if len(parts) == 0 {
		return "", errors.New("gemini: no messages to send")
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no response candidates")
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", ErrBlocked
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func toParts(messages []domain.ChatMessage) []genai.Part {
	last := -1
	for i, m := range messages {
		if m.Role == domain.RoleUser {
			last = i
		}
	}

	parts := make([]genai.Part, 0, len(messages))
	for i, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		switch {
		case i == last:
			parts = append(parts, genai.Text(content))
		case m.Role == domain.RoleSystem:
			parts = append(parts, genai.Text("Ko'rsatma: "+content))
		case m.Role == domain.RoleAssistant:
			parts = append(parts, genai.Text("Siz: "+content))
		default:
			parts = append(parts, genai.Text("Foydalanuvchi: "+content))
		}
	}
	return parts
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
