package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

type chatStateRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewChatStateRepository creates a Redis-backed chat state repository.
func NewChatStateRepository(client *redislib.Client, ttl time.Duration) repository.ChatStateRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &chatStateRepository{
		client: client,
		prefix: "chatstate:",
		ttl:    ttl,
	}
}

func (r *chatStateRepository) Get(ctx context.Context, chatID int64) (*domain.ChatState, error) {
	result, err := r.client.Get(ctx, r.key(chatID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrChatStateNotFound
		}
		return nil, err
	}

	var state domain.ChatState
	if err := json.Unmarshal([]byte(result), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *chatStateRepository) Save(ctx context.Context, state *domain.ChatState) error {
	if state == nil || state.ChatID == 0 {
		return domain.ErrInvalidPayload
	}
	state.UpdatedAt = time.Now()

	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(state.ChatID), payload, r.ttl).Err()
}

func (r *chatStateRepository) Clear(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, r.key(chatID)).Err()
}

func (r *chatStateRepository) key(chatID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, chatID)
}
