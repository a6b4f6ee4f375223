package repository

import (
	"context"

	"github.com/maintledger/backend/domain"
)

// ChatStateRepository persists per-chat UI state with a TTL.
type ChatStateRepository interface {
	Get(ctx context.Context, chatID int64) (*domain.ChatState, error)
	Save(ctx context.Context, state *domain.ChatState) error
	Clear(ctx context.Context, chatID int64) error
}
