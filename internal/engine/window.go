package engine

import (
	"context"

	"github.com/lumenlabs/lumen/internal/db"
)

// RecentWindow loads the last Limit messages of a chat in chronological
// order. A store failure surfaces to the caller as a request failure;
// there is no retry here.
func (e *Engine) RecentWindow(ctx context.Context, chatID string) ([]db.Message, error) {
	return e.Store.RecentMessages(ctx, chatID, e.Limit)
}
