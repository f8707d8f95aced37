package chat

import (
	"context"

	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

type CreateChatLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Create a new empty chat for the authenticated user
func NewCreateChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateChatLogic {
	return &CreateChatLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateChatLogic) CreateChat() (*types.CreateChatResponse, error) {
	userID := middleware.UserID(l.ctx)

	chat, err := l.svcCtx.Store.CreateChat(l.ctx, userID, "")
	if err != nil {
		l.Errorf("Failed to create chat: %v", err)
		return nil, err
	}

	return &types.CreateChatResponse{ChatId: chat.ID}, nil
}
