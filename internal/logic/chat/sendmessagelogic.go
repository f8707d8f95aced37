package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/content"
	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/engine"
	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/storage"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

type SendMessageLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Handle one user turn: persist it, build bounded context, call the
// completion service, persist the reply, and kick off summarization.
func NewSendMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SendMessageLogic {
	return &SendMessageLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SendMessageLogic) SendMessage(req *types.SendMessageRequest) (*types.SendMessageResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" && len(req.Images) == 0 {
		return nil, ErrMessageRequired
	}
	if req.ChatId == "" {
		return nil, ErrChatIdRequired
	}

	userID := middleware.UserID(l.ctx)
	chat, err := l.svcCtx.Store.GetChat(l.ctx, req.ChatId)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, db.ErrNotFound
	}

	// Persist the user turn first; losing it silently is not acceptable.
	contentToSave := req.Message
	if len(req.Images) > 0 {
		contentToSave, err = content.EncodeUserImages(req.Message, len(req.Images))
		if err != nil {
			return nil, fmt.Errorf("failed to encode user images: %w", err)
		}
	}
	userMsg, err := l.svcCtx.Store.InsertMessage(l.ctx, chat.ID, userID, "user", contentToSave)
	if err != nil {
		l.Errorf("User message insert error: %v", err)
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	// First turn of a fresh chat: name it. Cosmetic, so failures are
	// logged and swallowed.
	if chat.Title == db.DefaultTitle && text != "" {
		if title, err := generateTitle(l.ctx, l.svcCtx.Completer, l.svcCtx.Config.OpenAI.TitleModel, text); err != nil {
			l.Errorf("Title generation error for chat %s: %v", chat.ID, err)
		} else if err := l.svcCtx.Store.UpdateChatTitle(l.ctx, chat.ID, title); err != nil {
			l.Errorf("Title update error for chat %s: %v", chat.ID, err)
		}
	}

	window, err := l.svcCtx.Engine.RecentWindow(l.ctx, chat.ID)
	if err != nil {
		l.Errorf("History load error for chat %s: %v", chat.ID, err)
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	// The just-persisted turn goes last as the current turn, not as
	// history.
	if n := len(window); n > 0 && window[n-1].ID == userMsg.ID {
		window = window[:n-1]
	}

	items := engine.BuildPrompt(chat.Summary, window, engine.Turn{
		Text:   req.Message,
		Images: req.Images,
	})

	result, err := l.svcCtx.Completer.Complete(l.ctx, &ai.Request{
		Model:           l.chooseModel(req.Model),
		Items:           items,
		EnableTools:     true,
		ReasoningEffort: chooseEffort(req.ThinkingEffort),
	})
	if err != nil {
		l.Errorf("Completion error for chat %s: %v", chat.ID, err)
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	var resp *types.SendMessageResponse
	if result.ImageBase64 != "" {
		resp, err = l.persistGeneratedImage(chat, userID, result)
	} else {
		resp, err = l.persistTextReply(chat, userID, result.Text)
	}
	if err != nil {
		return nil, err
	}

	if err := l.svcCtx.Store.TouchChat(l.ctx, chat.ID); err != nil {
		l.Errorf("Chat touch error for chat %s: %v", chat.ID, err)
	}

	// Summarization is decoupled from the reply path: spawned, never
	// awaited, failures logged inside its own boundary.
	l.svcCtx.Engine.SummarizeAsync(chat.ID)

	return resp, nil
}

func (l *SendMessageLogic) persistTextReply(chat *db.Chat, userID, reply string) (*types.SendMessageResponse, error) {
	if _, err := l.svcCtx.Store.InsertMessage(l.ctx, chat.ID, userID, "assistant", reply); err != nil {
		l.Errorf("Assistant message insert error: %v", err)
		return nil, fmt.Errorf("failed to save assistant reply: %w", err)
	}
	return &types.SendMessageResponse{Type: "text", Reply: reply}, nil
}

// persistGeneratedImage uploads the generated image to object storage
// and stores the resulting URL (never the bytes) as the assistant turn.
func (l *SendMessageLogic) persistGeneratedImage(chat *db.Chat, userID string, result *ai.Result) (*types.SendMessageResponse, error) {
	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	path := storage.MakeImagePath(userID)
	url, err := l.svcCtx.Uploader.Upload(l.ctx, path, data, "image/png")
	if err != nil {
		l.Errorf("Storage upload error for chat %s: %v", chat.ID, err)
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	caption := result.Text
	stored, err := content.EncodeGeneratedImage(url, caption)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image message: %w", err)
	}
	if _, err := l.svcCtx.Store.InsertMessage(l.ctx, chat.ID, userID, "assistant", stored); err != nil {
		l.Errorf("Assistant image insert error: %v", err)
		return nil, fmt.Errorf("failed to save assistant reply: %w", err)
	}

	return &types.SendMessageResponse{Type: "image", Url: url, Caption: caption}, nil
}

func (l *SendMessageLogic) chooseModel(requested string) string {
	if requested != "" && l.svcCtx.Config.ModelAllowed(requested) {
		return requested
	}
	return l.svcCtx.Config.OpenAI.ChatModel
}

// chooseEffort passes through the allowed reasoning efforts; anything
// else is omitted from the request.
func chooseEffort(requested string) string {
	switch requested {
	case "medium", "high":
		return requested
	default:
		return ""
	}
}
