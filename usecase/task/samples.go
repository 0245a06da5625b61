package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
)

func sampleInputs(now time.Time) []domain.TaskInput {
	str := func(v string) *string { return &v }
	status := func(v domain.Status) *domain.Status { return &v }
	priority := func(v domain.Priority) *domain.Priority { return &v }
	proposalDue := now.Add(3 * 24 * time.Hour)

	return []domain.TaskInput{
		{
			Title:       str("Complete project proposal"),
			Description: str("Write a detailed project proposal for the new client"),
			Priority:    priority(domain.PriorityHigh),
			DueDate:     &proposalDue,
			Tags:        []string{"work", "client"},
		},
		{
			Title:       str("Schedule team meeting"),
			Description: str("Coordinate with team members for the weekly sync up"),
			Priority:    priority(domain.PriorityMedium),
			Status:      status(domain.StatusInProgress),
			Tags:        []string{"work", "team"},
		},
		{
			Title:       str("Research new technologies"),
			Description: str("Look into new frameworks for upcoming projects"),
			Priority:    priority(domain.PriorityLow),
			Tags:        []string{"development", "learning"},
		},
		{
			Title:       str("Update documentation"),
			Description: str("Update the project documentation with recent changes"),
			Status:      status(domain.StatusCompleted),
			Priority:    priority(domain.PriorityMedium),
			Tags:        []string{"documentation"},
		},
	}
}

// InitializeWithSamples seeds demonstration tasks into an empty collection
// and reports whether it did so.
func (s *Store) InitializeWithSamples(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if len(tasks) > 0 {
		return false, nil
	}

	now := s.now()
	for _, input := range sampleInputs(now) {
		tasks = append(tasks, domain.NewTask(input, now))
	}
	if err := s.save(ctx, tasks); err != nil {
		return false, err
	}

	s.logger.Info("seeded sample tasks", zap.Int("count", len(tasks)))
	return true, nil
}
