package chat

import (
	"context"
	"time"

	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

type ListMessagesLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Load a chat's full history, oldest first
func NewListMessagesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListMessagesLogic {
	return &ListMessagesLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListMessagesLogic) ListMessages(req *types.ListMessagesRequest) (*types.ListMessagesResponse, error) {
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

	messages, err := l.svcCtx.Store.ListMessages(l.ctx, req.ChatId)
	if err != nil {
		l.Errorf("Failed to load messages for chat %s: %v", req.ChatId, err)
		return nil, err
	}

	resp := &types.ListMessagesResponse{Messages: make([]types.ChatMessage, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, types.ChatMessage{
			Id:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
