package engine

import (
	"context"
	"errors"

	"github.com/lumenlabs/lumen/internal/db"
)

// ErrCheckpointNotFound means a chat's summary checkpoint no longer
// resolves to a message of that chat. Summarization is skipped for the
// turn; it must never proceed on a dangling checkpoint.
var ErrCheckpointNotFound = errors.New("summary checkpoint message not found")

// Unsummarized returns the ordered set of messages not yet folded into
// the chat's rolling summary.
//
// With no checkpoint, the chat has never been summarized and the
// chronologically first Limit messages are the bootstrap batch. With a
// checkpoint, every message strictly after it is returned with no upper
// bound: when folds are skipped repeatedly the set can grow past Limit,
// an accepted trade-off of the checkpoint design.
func (e *Engine) Unsummarized(ctx context.Context, chat *db.Chat) ([]db.Message, error) {
	if chat.SummaryUntilMessageID == "" {
		return e.Store.FirstMessages(ctx, chat.ID, e.Limit)
	}

	checkpoint, err := e.Store.GetMessage(ctx, chat.SummaryUntilMessageID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, err
	}
	if checkpoint.ChatID != chat.ID {
		return nil, ErrCheckpointNotFound
	}

	return e.Store.MessagesAfter(ctx, chat.ID, checkpoint)
}
