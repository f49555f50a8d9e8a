package dialogue

import (
	"fmt"
	"strings"

	"credit-agent/internal/domain"
)

func buildPromptMessages(knowledge, question string, history []domain.Turn) []domain.ChatMessage {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: buildStylePrompt()},
	}
	for _, t := range history {
		content := strings.TrimSpace(t.Text)
		if content == "" {
			continue
		}
		messages = append(messages, domain.ChatMessage{Role: t.Role, Content: content})
	}
	return append(messages, domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: buildGroundingPrompt(knowledge, question),
	})
}

func buildStylePrompt() string {
	return "Answer concisely (max 50 words) in Uzbek, using natural and polite language."
}

func buildGroundingPrompt(knowledge, question string) string {
	return fmt.Sprintf(
		"Quyidagi ma'lumot asosida qisqa (50 so'zdan kam) va muloyim javob bering:\n%s\n\nSavol: %s",
		knowledge,
		question,
	)
}
