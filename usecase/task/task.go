package task

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// Store owns the persisted task collection. Every operation reads the full
// collection from storage; mutations write the full collection back.
type Store struct {
	storage repository.CollectionStorage
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(storage repository.CollectionStorage, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns the collection in storage order.
func (s *Store) GetAll(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetByID returns nil without error when no task has the id.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(tasks, id); i >= 0 {
		return &tasks[i], nil
	}
	return nil, nil
}

func (s *Store) Add(ctx context.Context, input domain.TaskInput) (*domain.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	task := domain.NewTask(input, s.now())
	if err := s.save(ctx, append(tasks, task)); err != nil {
		return nil, err
	}

	s.logger.Debug("task added", zap.String("task_id", task.ID))
	return &task, nil
}

// Update merges patch onto the task with the given id. It returns nil
// without error when the id is unknown.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return nil, nil
	}

	updated := tasks[i]
	patch.Apply(&updated)
	stamp := s.nextUpdate(updated)
	updated.UpdatedAt = &stamp
	tasks[i] = updated

	if err := s.save(ctx, tasks); err != nil {
		return nil, err
	}

	s.logger.Debug("task updated", zap.String("task_id", id))
	return &updated, nil
}

// Delete removes the task and reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return false, nil
	}

	remaining := append(tasks[:i:i], tasks[i+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return false, err
	}

	s.logger.Debug("task deleted", zap.String("task_id", id))
	return true, nil
}

// GetAllTags returns every distinct tag in first-seen order.
func (s *Store) GetAllTags(ctx context.Context) ([]string, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// nextUpdate returns the current time, nudged forward if needed so that
// updatedAt always moves strictly past its previous value.
func (s *Store) nextUpdate(t domain.Task) time.Time {
	prev := t.CreatedAt
	if t.UpdatedAt != nil && t.UpdatedAt.After(prev) {
		prev = *t.UpdatedAt
	}
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Store) load(ctx context.Context) ([]domain.Task, error) {
	payload, err := s.storage.Read(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodePersistence, "read task collection", err)
	}
	tasks := make([]domain.Task, 0)
	if len(payload) == 0 {
		return tasks, nil
	}
	if err := json.Unmarshal(payload, &tasks); err != nil {
		s.logger.Error("task collection is corrupt", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodePersistence, "decode task collection", err)
	}
	if tasks == nil {
		tasks = make([]domain.Task, 0)
	}
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}
	return tasks, nil
}

func (s *Store) save(ctx context.Context, tasks []domain.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "encode task collection", err)
	}
	if err := s.storage.Write(ctx, payload); err != nil {
		s.logger.Error("failed to persist task collection", zap.Int("tasks", len(tasks)), zap.Error(err))
		return domain.WrapError(domain.ErrCodePersistence, "write task collection", err)
	}
	return nil
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
