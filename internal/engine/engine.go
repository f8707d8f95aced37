// Package engine is the context and summarization core: it selects the
// bounded slice of history sent to the completion service, keeps each
// chat's rolling summary synchronized with a checkpoint in the message
// stream, and assembles the ordered model input for a turn.
package engine

import (
	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/db"
)

// Engine holds the store and completion client plus the summarization
// policy. Limit is K: both the recent-window size and the threshold of
// unsummarized messages that triggers a fold.
type Engine struct {
	Store     *db.Store
	Completer ai.Client

	Limit            int
	SummaryModel     string
	SummaryMaxTokens int64
}

// New creates an engine with the given policy
func New(store *db.Store, completer ai.Client, limit int, summaryModel string, summaryMaxTokens int64) *Engine {
	return &Engine{
		Store:            store,
		Completer:        completer,
		Limit:            limit,
		SummaryModel:     summaryModel,
		SummaryMaxTokens: summaryMaxTokens,
	}
}
