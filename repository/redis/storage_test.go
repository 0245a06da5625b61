package redis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requires Redis running on localhost:6379
const testRedisAddr = "localhost:6379"

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	client := redislib.NewClient(&redislib.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	s := NewStorage(client, "test_"+uuid.NewString())
	t.Cleanup(func() {
		client.Del(ctx, s.key())
		client.Close()
	})
	return s
}

func TestNewStorage_DefaultSlot(t *testing.T) {
	s := NewStorage(nil, "")
	assert.Equal(t, "taskflow:taskflow_tasks", s.key())
}

func TestStorage_ReadMissingKey(t *testing.T) {
	s := setupTestStorage(t)

	payload, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestStorage_WriteRead(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []byte(`[{"id":"a"}]`)))
	payload, err := s.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(payload))
	assert.NoError(t, s.Ping(ctx))
}
