package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/repository"
)

// Storage keeps the collection as a JSONB document in the task_collections table.
type Storage struct {
	pool *pgxpool.Pool
	slot string
}

// NewStorage returns a Postgres-backed collection slot.
func NewStorage(pool *pgxpool.Pool, slot string) *Storage {
	if slot == "" {
		slot = "taskflow_tasks"
	}
	return &Storage{pool: pool, slot: slot}
}

func (s *Storage) Read(ctx context.Context) ([]byte, error) {
	const query = `SELECT payload FROM task_collections WHERE slot = $1`

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, s.slot).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (s *Storage) Write(ctx context.Context, payload []byte) error {
	const query = `
	INSERT INTO task_collections (slot, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (slot) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query, s.slot, payload)
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var (
	_ repository.CollectionStorage = (*Storage)(nil)
	_ repository.Pinger            = (*Storage)(nil)
)
