package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/content"
	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/db/migrations"
	"github.com/lumenlabs/lumen/internal/engine"
	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/storage"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

// fakeCompleter returns a canned reply, or a canned generated image
// when imageB64 is set
type fakeCompleter struct {
	text     string
	imageB64 string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, req *ai.Request) (*ai.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text, ImageBase64: f.imageB64}, nil
}

func newTestSvc(t *testing.T, completer ai.Client) *svc.ServiceContext {
	t.Helper()
	logging.Disable()
	migrations.QuietMode = true

	store, err := db.NewSQLite(filepath.Join(t.TempDir(), "logic.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	uploader, err := storage.NewLocalUploader(t.TempDir(), "http://localhost:3000/chat-images")
	if err != nil {
		t.Fatalf("failed to create test uploader: %v", err)
	}

	c := &config.Config{}
	c.OpenAI.ChatModel = "gpt-5.2"
	c.OpenAI.TitleModel = "gpt-5.2"
	c.OpenAI.SummaryModel = "gpt-4.1-nano"
	c.OpenAI.AllowedModels = []string{"gpt-5.2", "gpt-4.1"}
	c.OpenAI.SummaryMaxTokens = 500
	c.Engine.MessagesLimit = 10

	return &svc.ServiceContext{
		Config:    c,
		Store:     store,
		Completer: completer,
		Engine:    engine.New(store, completer, 10, c.OpenAI.SummaryModel, c.OpenAI.SummaryMaxTokens),
		Uploader:  uploader,
	}
}

func userCtx(userID string) context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

func TestSendMessagePersistsTurnsAndTouchesChat(t *testing.T) {
	completer := &fakeCompleter{text: "Hello there."}
	svcCtx := newTestSvc(t, completer)
	ctx := userCtx("user-1")

	chat, _ := svcCtx.Store.CreateChat(ctx, "user-1", "titled already")
	if _, err := svcCtx.Store.DB().Exec(`UPDATE chats SET updated_at = 1 WHERE id = ?`, chat.ID); err != nil {
		t.Fatalf("failed to backdate chat: %v", err)
	}

	resp, err := NewSendMessageLogic(ctx, svcCtx).SendMessage(&types.SendMessageRequest{
		Message: "hi",
		ChatId:  chat.ID,
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if resp.Type != "text" || resp.Reply != "Hello there." {
		t.Errorf("unexpected reply payload: %+v", resp)
	}

	msgs, _ := svcCtx.Store.ListMessages(ctx, chat.ID)
	if len(msgs) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "hi" {
		t.Errorf("user turn stored wrong: %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "Hello there." {
		t.Errorf("assistant turn stored wrong: %+v", msgs[1])
	}

	got, _ := svcCtx.Store.GetChat(ctx, chat.ID)
	if !got.UpdatedAt.After(time.Unix(1, 0)) {
		t.Errorf("sending a message must advance the chat's updated_at")
	}
}

func TestSendMessageGeneratedImage(t *testing.T) {
	png := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	completer := &fakeCompleter{text: "a red square", imageB64: png}
	svcCtx := newTestSvc(t, completer)
	ctx := userCtx("user-1")

	chat, _ := svcCtx.Store.CreateChat(ctx, "user-1", "titled already")

	resp, err := NewSendMessageLogic(ctx, svcCtx).SendMessage(&types.SendMessageRequest{
		Message: "draw a red square",
		ChatId:  chat.ID,
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if resp.Type != "image" || resp.Caption != "a red square" {
		t.Errorf("unexpected image payload: %+v", resp)
	}
	if !strings.HasPrefix(resp.Url, "http://localhost:3000/chat-images/user-1/") {
		t.Errorf("image URL not under the uploader base: %s", resp.Url)
	}

	msgs, _ := svcCtx.Store.ListMessages(ctx, chat.ID)
	if len(msgs) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(msgs))
	}
	stored := content.Parse(msgs[1].Content)
	if stored.Kind != content.KindGeneratedImage || stored.URL != resp.Url {
		t.Errorf("assistant turn must store the image union, got %+v", stored)
	}
}

func TestSendMessageValidation(t *testing.T) {
	svcCtx := newTestSvc(t, &fakeCompleter{text: "x"})
	ctx := userCtx("user-1")
	l := NewSendMessageLogic(ctx, svcCtx)

	if _, err := l.SendMessage(&types.SendMessageRequest{ChatId: "c1"}); !errors.Is(err, ErrMessageRequired) {
		t.Errorf("empty turn must be rejected, got %v", err)
	}
	if _, err := l.SendMessage(&types.SendMessageRequest{Message: "hi"}); !errors.Is(err, ErrChatIdRequired) {
		t.Errorf("missing chat id must be rejected, got %v", err)
	}
}

func TestSendMessageRejectsForeignChat(t *testing.T) {
	svcCtx := newTestSvc(t, &fakeCompleter{text: "x"})
	chat, _ := svcCtx.Store.CreateChat(context.Background(), "user-2", "titled already")

	_, err := NewSendMessageLogic(userCtx("user-1"), svcCtx).SendMessage(&types.SendMessageRequest{
		Message: "hi",
		ChatId:  chat.ID,
	})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("another user's chat must look nonexistent, got %v", err)
	}
}
