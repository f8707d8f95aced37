package chat

import (
	"context"
	"time"

	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

type ListChatsLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// List the authenticated user's chats, most recently updated first
func NewListChatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListChatsLogic {
	return &ListChatsLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListChatsLogic) ListChats() (*types.ListChatsResponse, error) {
	userID := middleware.UserID(l.ctx)

	chats, err := l.svcCtx.Store.ListChats(l.ctx, userID)
	if err != nil {
		l.Errorf("Failed to list chats: %v", err)
		return nil, err
	}

	resp := &types.ListChatsResponse{Chats: make([]types.ChatSummary, 0, len(chats))}
	for _, c := range chats {
		resp.Chats = append(resp.Chats, types.ChatSummary{
			Id:        c.ID,
			Title:     c.Title,
			UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
