package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaymitra-backend/models"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisConversationStore_AppendAndHistory(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisConversationStore(client)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "u1", turn(models.RoleUser, "What is Section 302?")))
	require.NoError(t, store.Append(ctx, "u1", turn(models.RoleAssistant, "It deals with murder.")))

	history, err := store.History(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.ConversationTurn{
		turn(models.RoleUser, "What is Section 302?"),
		turn(models.RoleAssistant, "It deals with murder."),
	}, history)

	items, err := mr.List("conversation:u1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRedisConversationStore_UnknownUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisConversationStore(client)

	history, err := store.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestRedisConversationStore_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisConversationStore(client)

	_, err := mr.Push("conversation:u1", "not json")
	require.NoError(t, err)

	_, err = store.History(context.Background(), "u1")
	assert.Error(t, err)
}

func TestRedisConversationStore_Unreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisConversationStore(client)
	mr.Close()

	err := store.Append(context.Background(), "u1", turn(models.RoleUser, "hi"))
	assert.Error(t, err)
}
