package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/content"
	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/logging"
)

const summarizeSystem = `You maintain a rolling summary of a conversation between a user and an assistant. Fold the new messages into the existing summary. Preserve: user goals, constraints, decisions, preferences, key facts, and open tasks. Discard filler, greetings, and redundant detail. Reply with the updated summary text only.`

const emptySummaryMarker = "(none)"

// SummarizeAsync runs MaybeSummarize on its own goroutine with its own
// error boundary. The reply path never waits on it and never sees its
// failures; they are logged and swallowed, leaving the previous
// summary/checkpoint pair authoritative.
func (e *Engine) SummarizeAsync(chatID string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Errorf("summarizer panic for chat %s: %v", chatID, r)
			}
		}()
		if err := e.MaybeSummarize(context.Background(), chatID); err != nil {
			logging.Errorf("summary job failed for chat %s: %v", chatID, err)
		}
	}()
}

// MaybeSummarize folds accumulated messages into the chat's rolling
// summary once at least Limit of them have built up past the
// checkpoint, then advances the checkpoint to the last folded message.
// Summary text and checkpoint are persisted together; on any failure
// the update is skipped entirely, never partially applied.
func (e *Engine) MaybeSummarize(ctx context.Context, chatID string) error {
	chat, err := e.Store.GetChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load chat: %w", err)
	}

	unsummarized, err := e.Unsummarized(ctx, chat)
	if err != nil {
		return fmt.Errorf("resolve unsummarized messages: %w", err)
	}

	// Threshold gate: folding is costly, so it only runs once enough
	// new messages have accumulated since the last checkpoint.
	if len(unsummarized) < e.Limit {
		return nil
	}

	req := &ai.Request{
		Model:           e.SummaryModel,
		MaxOutputTokens: e.SummaryMaxTokens,
		Items: []ai.Item{
			{Role: ai.RoleSystem, Text: summarizeSystem},
			{Role: ai.RoleUser, Text: foldInput(chat.Summary, unsummarized)},
		},
	}

	result, err := e.Completer.Complete(ctx, req)
	if err != nil {
		return fmt.Errorf("fold request: %w", err)
	}

	updated := strings.TrimSpace(result.Text)
	if updated == "" {
		// Nothing usable came back; the old pair stays valid.
		logging.Warnf("empty summary response for chat %s, keeping previous summary", chatID)
		return nil
	}

	last := unsummarized[len(unsummarized)-1]
	if err := e.Store.UpdateChatSummary(ctx, chatID, updated, last.ID); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}

	logging.Infof("summarized chat %s through message %s (%d folded)", chatID, last.ID, len(unsummarized))
	return nil
}

// foldInput renders the folding request body: the existing summary (or
// an explicit empty marker) followed by one normalized "ROLE: text"
// line per unsummarized message.
func foldInput(summary string, messages []db.Message) string {
	var sb strings.Builder
	sb.WriteString("Existing summary:\n")
	if strings.TrimSpace(summary) == "" {
		sb.WriteString(emptySummaryMarker)
	} else {
		sb.WriteString(summary)
	}
	sb.WriteString("\n\nNew messages:\n")
	for _, msg := range messages {
		sb.WriteString(strings.ToUpper(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(content.Normalize(msg.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}
