package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", NewError(ErrCodeInvalid, "invalid status "+raw)
	}
	return s, nil
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: high=3, medium=2, low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority converts raw input into a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return "", NewError(ErrCodeInvalid, "invalid priority "+raw)
	}
	return p, nil
}

// Task represents a single unit of work tracked by the user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	Tags        []string   `json:"tags"`
}

// TaskInput is the partial attribute set accepted when creating a task.
// Nil fields fall back to defaults.
type TaskInput struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	Tags        []string
}

// NewTask builds a complete task from partial input. It never fails; enum
// membership is checked by the store before persisting. Timestamps are kept
// in UTC so a task compares equal to its decoded JSON form.
func NewTask(input TaskInput, now time.Time) Task {
	task := Task{
		ID:        uuid.NewString(),
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		CreatedAt: now.UTC(),
		Tags:      []string{},
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		task.DueDate = &due
	}
	if input.Tags != nil {
		task.Tags = UniqueTags(input.Tags)
	}
	return task
}

// Validate reports whether the enumerated fields hold members of their sets.
func (in TaskInput) Validate() error {
	if in.Status != nil && !in.Status.Valid() {
		return NewError(ErrCodeInvalid, "invalid status "+string(*in.Status))
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return NewError(ErrCodeInvalid, "invalid priority "+string(*in.Priority))
	}
	return nil
}

// TaskPatch holds the fields to overwrite on an existing task. id and
// createdAt are not patchable.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

func (p TaskPatch) Validate() error {
	return TaskInput{Status: p.Status, Priority: p.Priority}.Validate()
}

// Apply overwrites the supplied fields on t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		due := p.DueDate.UTC()
		t.DueDate = &due
	}
	if p.Tags != nil {
		t.Tags = UniqueTags(*p.Tags)
	}
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

func (t *Task) HasTag(tag string) bool {
	if t == nil {
		return false
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// IsOverdue reports whether an open task was due on a day before now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.DueDate == nil || t.IsCompleted() {
		return false
	}
	return startOfDay(*t.DueDate, now.Location()).Before(startOfDay(now, now.Location()))
}

// IsDueToday reports whether the due date falls on the same calendar day as now.
func (t *Task) IsDueToday(now time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	return startOfDay(*t.DueDate, now.Location()).Equal(startOfDay(now, now.Location()))
}

// UniqueTags drops repeated tags, keeping the first occurrence.
func UniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
