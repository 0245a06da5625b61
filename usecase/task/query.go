package task

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fastygo/taskflow/domain"
)

// Criteria narrows a filter. Zero-valued fields impose no constraint.
type Criteria struct {
	Status   domain.Status
	Priority domain.Priority
	Tags     []string
	Search   string
}

// Matches reports whether t satisfies every provided criterion.
func (c Criteria) Matches(t domain.Task) bool {
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.Priority != "" && t.Priority != c.Priority {
		return false
	}
	for _, tag := range c.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

type SortBy string

const (
	SortByCreatedAt SortBy = "createdAt"
	SortByDueDate   SortBy = "dueDate"
	SortByPriority  SortBy = "priority"
	SortByTitle     SortBy = "title"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter returns the tasks matching criteria in storage order.
func (s *Store) Filter(ctx context.Context, criteria Criteria) ([]domain.Task, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterTasks(tasks, criteria), nil
}

// Query filters and then sorts, the combined view used by list screens.
func (s *Store) Query(ctx context.Context, criteria Criteria, by SortBy, dir Direction) ([]domain.Task, error) {
	tasks, err := s.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return Sort(tasks, by, dir), nil
}

func filterTasks(tasks []domain.Task, criteria Criteria) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if criteria.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably ordered copy of tasks. Tasks without a due date
// always sort after dated ones when ordering by dueDate, in either
// direction. Any direction other than asc sorts descending.
func Sort(tasks []domain.Task, by SortBy, dir Direction) []domain.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []domain.Task{}
	}
	sign := -1
	if dir == Asc {
		sign = 1
	}

	var cmp func(a, b domain.Task) int
	switch by {
	case SortByDueDate:
		cmp = func(a, b domain.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return sign * a.DueDate.Compare(*b.DueDate)
		}
	case SortByPriority:
		cmp = func(a, b domain.Task) int {
			return sign * (a.Priority.Rank() - b.Priority.Rank())
		}
	case SortByTitle:
		collator := collate.New(language.Und)
		cmp = func(a, b domain.Task) int {
			return sign * collator.CompareString(a.Title, b.Title)
		}
	default:
		cmp = func(a, b domain.Task) int {
			return sign * a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// ParseSortBy maps raw input onto a sort key; unknown values fall back to createdAt.
func ParseSortBy(raw string) SortBy {
	switch SortBy(raw) {
	case SortByDueDate, SortByPriority, SortByTitle:
		return SortBy(raw)
	}
	return SortByCreatedAt
}

// ParseDirection defaults to descending, matching the list view.
func ParseDirection(raw string) Direction {
	if Direction(raw) == Asc {
		return Asc
	}
	return Desc
}
