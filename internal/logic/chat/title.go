package chat

import (
	"context"
	"strings"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/db"
)

const titleSystem = "Create a short chat title. It must have 2 to 6 words maximum. No quotes. No punctuation at the end. Title case. Do not include emojis. Do not include extra symbols. Just the 2 to 6 word title and nothing else at all."

// generateTitle asks the completion service for a short chat title
// based on the first user message. Failures are the caller's to swallow;
// titles are cosmetic.
func generateTitle(ctx context.Context, completer ai.Client, model, firstMessage string) (string, error) {
	result, err := completer.Complete(ctx, &ai.Request{
		Model:           model,
		MaxOutputTokens: 20,
		Items: []ai.Item{
			{Role: ai.RoleSystem, Text: titleSystem},
			{Role: ai.RoleUser, Text: firstMessage},
		},
	})
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(result.Text)
	if title == "" {
		title = db.DefaultTitle
	}
	return title, nil
}
