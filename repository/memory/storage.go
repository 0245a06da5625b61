package memory

import (
	"context"
	"sync"

	"github.com/fastygo/taskflow/repository"
)

// Storage keeps the collection in process memory.
type Storage struct {
	mu      sync.RWMutex
	payload []byte

	// WriteErr, when set, is returned by every Write.
	WriteErr error
}

func New() *Storage {
	return &Storage{}
}

func (s *Storage) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payload == nil {
		return nil, nil
	}
	return append([]byte(nil), s.payload...), nil
}

func (s *Storage) Write(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.payload = append([]byte(nil), payload...)
	return nil
}

// Raw replaces the stored bytes without going through Write.
func (s *Storage) Raw(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

var (
	_ repository.CollectionStorage = (*Storage)(nil)
	_ repository.Pinger            = (*Storage)(nil)
)
