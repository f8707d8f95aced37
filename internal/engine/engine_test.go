package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/content"
	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/db/migrations"
	"github.com/lumenlabs/lumen/internal/logging"
)

// fakeCompleter records fold requests and returns a canned response
type fakeCompleter struct {
	text    string
	err     error
	calls   int
	lastReq *ai.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req *ai.Request) (*ai.Result, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text}, nil
}

func newTestEngine(t *testing.T, completer ai.Client) (*Engine, *db.Store) {
	t.Helper()
	logging.Disable()
	migrations.QuietMode = true
	store, err := db.NewSQLite(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, completer, 10, "gpt-4.1-nano", 500), store
}

func seedMessages(t *testing.T, store *db.Store, chatID string, n int) []*db.Message {
	t.Helper()
	ctx := context.Background()
	var out []*db.Message
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msg, err := store.InsertMessage(ctx, chatID, "user-1", role, fmt.Sprintf("message %d", i+1))
		if err != nil {
			t.Fatalf("failed to seed message %d: %v", i, err)
		}
		out = append(out, msg)
	}
	return out
}

func TestBootstrapSummarization(t *testing.T) {
	completer := &fakeCompleter{text: "User is planning a trip to Japan."}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	msgs := seedMessages(t, store, chat.ID, 12)

	if err := eng.MaybeSummarize(ctx, chat.ID); err != nil {
		t.Fatalf("summarization failed: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("expected exactly one fold call, got %d", completer.calls)
	}

	// Bootstrap folds exactly the first Limit messages, oldest first.
	input := completer.lastReq.Items[1].Text
	if !strings.Contains(input, "(none)") {
		t.Errorf("bootstrap fold must carry the empty-summary marker")
	}
	if !strings.Contains(input, "USER: message 1") {
		t.Errorf("fold input missing first message: %q", input)
	}
	if !strings.Contains(input, "ASSISTANT: message 10") {
		t.Errorf("fold input missing tenth message: %q", input)
	}
	if strings.Contains(input, "message 11") {
		t.Errorf("bootstrap fold must stop at the limit, got %q", input)
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "User is planning a trip to Japan." {
		t.Errorf("unexpected summary %q", got.Summary)
	}
	if got.SummaryUntilMessageID != msgs[9].ID {
		t.Errorf("checkpoint must be the 10th message, got %q", got.SummaryUntilMessageID)
	}
}

func TestThresholdGating(t *testing.T) {
	completer := &fakeCompleter{text: "should not be used"}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	seedMessages(t, store, chat.ID, 3)

	if err := eng.MaybeSummarize(ctx, chat.ID); err != nil {
		t.Fatalf("summarization failed: %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("below the threshold the completion service must not be called")
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "" || got.SummaryUntilMessageID != "" {
		t.Errorf("no-op run must leave summary and checkpoint unchanged")
	}
}

func TestCheckpointAdvanceTwelvePastCheckpoint(t *testing.T) {
	completer := &fakeCompleter{text: "Trip planning continues; flights booked."}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	msgs := seedMessages(t, store, chat.ID, 20)
	if err := store.UpdateChatSummary(ctx, chat.ID, "User is planning a trip to Japan.", msgs[19].ID); err != nil {
		t.Fatalf("failed to set initial summary: %v", err)
	}

	more := seedMessages(t, store, chat.ID, 12)

	if err := eng.MaybeSummarize(ctx, chat.ID); err != nil {
		t.Fatalf("summarization failed: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("expected one fold call, got %d", completer.calls)
	}

	// The fold carries the old summary plus all 12 new messages.
	input := completer.lastReq.Items[1].Text
	if !strings.Contains(input, "User is planning a trip to Japan.") {
		t.Errorf("fold input must include the previous summary")
	}
	if strings.Contains(input, "(none)") {
		t.Errorf("non-empty summary must not use the empty marker")
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "Trip planning continues; flights booked." {
		t.Errorf("old summary not superseded: %q", got.Summary)
	}
	if got.SummaryUntilMessageID != more[11].ID {
		t.Errorf("checkpoint must advance to the 12th new message")
	}
}

func TestCheckpointNotFound(t *testing.T) {
	completer := &fakeCompleter{text: "should not run"}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	seedMessages(t, store, chat.ID, 12)
	if err := store.UpdateChatSummary(ctx, chat.ID, "stale", "no-such-message"); err != nil {
		t.Fatalf("failed to set summary: %v", err)
	}

	err := eng.MaybeSummarize(ctx, chat.ID)
	if !errors.Is(err, ErrCheckpointNotFound) {
		t.Fatalf("expected ErrCheckpointNotFound, got %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("must not fold on a dangling checkpoint")
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "stale" || got.SummaryUntilMessageID != "no-such-message" {
		t.Errorf("failed run must leave the stored pair untouched")
	}
}

func TestCheckpointFromAnotherChat(t *testing.T) {
	completer := &fakeCompleter{text: "should not run"}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	other, _ := store.CreateChat(ctx, "user-1", "")
	foreign := seedMessages(t, store, other.ID, 1)

	chat, _ := store.CreateChat(ctx, "user-1", "")
	seedMessages(t, store, chat.ID, 12)
	store.UpdateChatSummary(ctx, chat.ID, "stale", foreign[0].ID)

	if err := eng.MaybeSummarize(ctx, chat.ID); !errors.Is(err, ErrCheckpointNotFound) {
		t.Fatalf("a checkpoint owned by another chat must not resolve, got %v", err)
	}
}

func TestEmptyFoldResponseKeepsOldPair(t *testing.T) {
	completer := &fakeCompleter{text: "   "}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	seedMessages(t, store, chat.ID, 12)

	if err := eng.MaybeSummarize(ctx, chat.ID); err != nil {
		t.Fatalf("empty response is not an error: %v", err)
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "" || got.SummaryUntilMessageID != "" {
		t.Errorf("empty response must not touch summary or checkpoint")
	}
}

func TestFoldFailureKeepsOldPair(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("service unavailable")}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	msgs := seedMessages(t, store, chat.ID, 15)
	store.UpdateChatSummary(ctx, chat.ID, "previous", msgs[4].ID)

	if err := eng.MaybeSummarize(ctx, chat.ID); err == nil {
		t.Fatalf("expected the service failure to surface")
	}
	if completer.calls != 1 {
		t.Fatalf("expected exactly one fold call, got %d", completer.calls)
	}

	got, _ := store.GetChat(ctx, chat.ID)
	if got.Summary != "previous" || got.SummaryUntilMessageID != msgs[4].ID {
		t.Errorf("failed fold must leave the stored pair untouched")
	}
}

func TestFoldNormalizesImageContent(t *testing.T) {
	completer := &fakeCompleter{text: "summary"}
	eng, store := newTestEngine(t, completer)
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	imageMsg, _ := content.EncodeGeneratedImage("https://cdn.example.com/x.png", "cap")
	store.InsertMessage(ctx, chat.ID, "user-1", "assistant", imageMsg)
	seedMessages(t, store, chat.ID, 9)

	if err := eng.MaybeSummarize(ctx, chat.ID); err != nil {
		t.Fatalf("summarization failed: %v", err)
	}

	input := completer.lastReq.Items[1].Text
	if !strings.Contains(input, content.PlaceholderGeneratedImage) {
		t.Errorf("image content must fold as its placeholder")
	}
	if strings.Contains(input, "cdn.example.com") {
		t.Errorf("image URLs must never reach the folding request")
	}
}

func TestRecentWindow(t *testing.T) {
	eng, store := newTestEngine(t, &fakeCompleter{})
	ctx := context.Background()

	chat, _ := store.CreateChat(ctx, "user-1", "")
	msgs := seedMessages(t, store, chat.ID, 14)

	window, err := eng.RecentWindow(ctx, chat.ID)
	if err != nil {
		t.Fatalf("failed to load window: %v", err)
	}
	if len(window) != 10 {
		t.Fatalf("expected a 10-message window, got %d", len(window))
	}
	if window[0].ID != msgs[4].ID {
		t.Errorf("window must start at the 5th message")
	}
	if window[9].ID != msgs[13].ID {
		t.Errorf("window must end at the most recent message")
	}
}
