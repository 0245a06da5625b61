package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewTask_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	task := NewTask(TaskInput{}, now)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.UpdatedAt)
	assert.Equal(t, now, task.CreatedAt)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
}

func TestNewTask_OverlaysInput(t *testing.T) {
	now := time.Now()
	due := now.Add(48 * time.Hour)

	task := NewTask(TaskInput{
		Title:       ptr("Write report"),
		Description: ptr("quarterly"),
		Status:      ptr(StatusInProgress),
		Priority:    ptr(PriorityHigh),
		DueDate:     &due,
		Tags:        []string{"work", "report", "work"},
	}, now)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "quarterly", task.Description)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
	assert.Equal(t, []string{"work", "report"}, task.Tags)
}

func TestNewTask_UniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		task := NewTask(TaskInput{}, time.Now())
		_, dup := seen[task.ID]
		require.False(t, dup, "duplicate id %s", task.ID)
		seen[task.ID] = struct{}{}
	}
}

func TestParseEnums(t *testing.T) {
	s, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("done")
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))

	p, err := ParsePriority("low")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Rank())

	_, err = ParsePriority("urgent")
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestTaskPatch_Apply(t *testing.T) {
	now := time.Now()
	due := now.Add(time.Hour)
	task := NewTask(TaskInput{Title: ptr("a"), DueDate: &due, Tags: []string{"x"}}, now)

	TaskPatch{Title: ptr("b"), ClearDueDate: true, Tags: &[]string{"y", "y", "z"}}.Apply(&task)

	assert.Equal(t, "b", task.Title)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, []string{"y", "z"}, task.Tags)
	assert.Equal(t, StatusTodo, task.Status)
}

func TestTaskPatch_Validate(t *testing.T) {
	bad := Status("archived")
	err := TaskPatch{Status: &bad}.Validate()
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))

	assert.NoError(t, TaskPatch{Priority: ptr(PriorityLow)}.Validate())
}

func TestTask_DueHelpers(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	earlierToday := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

	overdue := Task{Status: StatusTodo, DueDate: &yesterday}
	assert.True(t, overdue.IsOverdue(now))
	assert.False(t, overdue.IsDueToday(now))

	today := Task{Status: StatusTodo, DueDate: &earlierToday}
	assert.False(t, today.IsOverdue(now))
	assert.True(t, today.IsDueToday(now))

	done := Task{Status: StatusCompleted, DueDate: &yesterday}
	assert.False(t, done.IsOverdue(now))

	assert.False(t, (&Task{}).IsOverdue(now))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(ErrCodePersistence, "write collection", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "write collection: disk full", err.Error())
	assert.True(t, IsDomainError(err, ErrCodePersistence))
	assert.False(t, IsDomainError(cause, ErrCodePersistence))
}
