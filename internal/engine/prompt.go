package engine

import (
	"strings"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/content"
	"github.com/lumenlabs/lumen/internal/db"
)

const systemInstruction = "You are a helpful assistant. Use the conversation summary as background context. If it conflicts with the latest messages, prefer the latest messages."

// imageOnlyQuery is the query text used when the current turn carries
// images but no message.
const imageOnlyQuery = "What's in these images?"

// Turn is the current user turn: text, attached base64 JPEG images, or
// both. Callers validate that at least one is present before building
// the prompt.
type Turn struct {
	Text   string
	Images []string
}

// BuildPrompt assembles the ordered model input for one turn. The
// ordering is a correctness requirement (instructions, then context,
// then query):
//
//  1. the fixed system instruction,
//  2. the rolling summary as a second system item, when non-empty,
//  3. the recent window, chronological, with image content replaced by
//     normalized placeholders (historical image payloads are never
//     resent),
//  4. the current user turn, with this turn's images inline.
func BuildPrompt(summary string, window []db.Message, turn Turn) []ai.Item {
	items := make([]ai.Item, 0, len(window)+3)
	items = append(items, ai.Item{Role: ai.RoleSystem, Text: systemInstruction})

	if s := strings.TrimSpace(summary); s != "" {
		items = append(items, ai.Item{Role: ai.RoleSystem, Text: "Conversation summary:\n" + s})
	}

	for _, msg := range window {
		role := ai.RoleUser
		if msg.Role == "assistant" {
			role = ai.RoleAssistant
		}
		items = append(items, ai.Item{Role: role, Text: content.Normalize(msg.Content)})
	}

	text := strings.TrimSpace(turn.Text)
	if text == "" && len(turn.Images) > 0 {
		text = imageOnlyQuery
	}
	items = append(items, ai.Item{Role: ai.RoleUser, Text: text, Images: turn.Images})

	return items
}
