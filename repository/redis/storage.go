package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskflow/repository"
)

type Storage struct {
	client *redislib.Client
	prefix string
	slot   string
}

// NewStorage creates a Redis-backed collection slot.
func NewStorage(client *redislib.Client, slot string) *Storage {
	if slot == "" {
		slot = "taskflow_tasks"
	}
	return &Storage{
		client: client,
		prefix: "taskflow:",
		slot:   slot,
	}
}

func (r *Storage) Read(ctx context.Context) ([]byte, error) {
	result, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (r *Storage) Write(ctx context.Context, payload []byte) error {
	return r.client.Set(ctx, r.key(), payload, 0).Err()
}

func (r *Storage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Storage) key() string {
	return fmt.Sprintf("%s%s", r.prefix, r.slot)
}

var (
	_ repository.CollectionStorage = (*Storage)(nil)
	_ repository.Pinger            = (*Storage)(nil)
)
