package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskflow/repository"
)

const slotsBucket = "slots"

// Storage persists the collection as one value in a BoltDB file.
type Storage struct {
	db  *bolt.DB
	key []byte
}

// Open initializes the BoltDB file and ensures the slots bucket exists.
func Open(path string, slot string) (*Storage, error) {
	if slot == "" {
		slot = "taskflow_tasks"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(slotsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{
		db:  db,
		key: []byte(slot),
	}, nil
}

func (s *Storage) Read(ctx context.Context) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(slotsBucket)).Get(s.key); v != nil {
			payload = append([]byte(nil), v...)
		}
		return nil
	})
	return payload, err
}

func (s *Storage) Write(ctx context.Context, payload []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(slotsBucket)).Put(s.key, payload)
	})
}

// Ping verifies the database file is still open and readable.
func (s *Storage) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(slotsBucket)) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var (
	_ repository.CollectionStorage = (*Storage)(nil)
	_ repository.Pinger            = (*Storage)(nil)
)
