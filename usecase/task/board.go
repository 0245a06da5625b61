package task

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// Column is one status lane of the board.
type Column struct {
	Status   domain.Status `json:"status"`
	Tasks    []domain.Task `json:"tasks"`
	Count    int           `json:"count"`
	Overdue  int           `json:"overdue"`
	DueToday int           `json:"dueToday"`
}

// Board groups tasks into one column per status.
type Board struct {
	Columns []Column `json:"columns"`
}

// Board returns the tasks matching criteria grouped by status, newest first
// within each column.
func (s *Store) Board(ctx context.Context, criteria Criteria) (Board, error) {
	tasks, err := s.Query(ctx, criteria, SortByCreatedAt, Desc)
	if err != nil {
		return Board{}, err
	}
	now := s.now()

	board := Board{Columns: make([]Column, 0, len(domain.Statuses))}
	for _, status := range domain.Statuses {
		col := Column{Status: status, Tasks: []domain.Task{}}
		for i := range tasks {
			t := &tasks[i]
			if t.Status != status {
				continue
			}
			col.Tasks = append(col.Tasks, *t)
			if t.IsOverdue(now) {
				col.Overdue++
			}
			if t.IsDueToday(now) {
				col.DueToday++
			}
		}
		col.Count = len(col.Tasks)
		board.Columns = append(board.Columns, col)
	}
	return board, nil
}
