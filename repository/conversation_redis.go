package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nyaymitra-backend/models"
)

var _ ConversationStore = (*RedisConversationStore)(nil)

// Key prefix for conversation lists
const conversationPrefix = "conversation:"

// RedisConversationStore keeps each user's history in a Redis list.
// RPUSH is atomic, so concurrent appends for one user never interleave
// within a turn and insertion order is preserved.
type RedisConversationStore struct {
	client *redis.Client
}

// NewRedisConversationStore creates a Redis-backed ConversationStore
func NewRedisConversationStore(client *redis.Client) *RedisConversationStore {
	return &RedisConversationStore{client: client}
}

// Append implements ConversationStore
func (s *RedisConversationStore) Append(ctx context.Context, userID string, turn models.ConversationTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}
	if err := s.client.RPush(ctx, conversationPrefix+userID, data).Err(); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// History implements ConversationStore
func (s *RedisConversationStore) History(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	items, err := s.client.LRange(ctx, conversationPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	turns := make([]models.ConversationTurn, 0, len(items))
	for _, item := range items {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
