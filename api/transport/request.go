package transport

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

// TaskRequest is the JSON body for create and update calls. Absent fields are
// left untouched; dueDate distinguishes an explicit null from absence.
type TaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Priority    *string         `json:"priority"`
	DueDate     json.RawMessage `json:"dueDate"`
	Tags        *[]string       `json:"tags"`
}

// DecodeTaskRequest parses a request body. An empty body is an empty request.
func DecodeTaskRequest(body []byte) (TaskRequest, error) {
	var req TaskRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return req, nil
}

// Patch converts the request into a shallow-merge patch.
func (r TaskRequest) Patch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
	}
	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	if r.Priority != nil {
		priority, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &priority
	}
	due, present, err := r.dueDate()
	if err != nil {
		return patch, err
	}
	if present {
		patch.DueDate = due
		patch.ClearDueDate = due == nil
	}
	return patch, nil
}

// Input converts the request into factory input for a new task.
func (r TaskRequest) Input() (domain.TaskInput, error) {
	patch, err := r.Patch()
	if err != nil {
		return domain.TaskInput{}, err
	}
	input := domain.TaskInput{
		Title:       patch.Title,
		Description: patch.Description,
		Status:      patch.Status,
		Priority:    patch.Priority,
		DueDate:     patch.DueDate,
	}
	if patch.Tags != nil {
		input.Tags = *patch.Tags
	}
	return input, nil
}

func (r TaskRequest) dueDate() (*time.Time, bool, error) {
	if len(r.DueDate) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(r.DueDate), []byte("null")) {
		return nil, true, nil
	}
	var raw string
	if err := json.Unmarshal(r.DueDate, &raw); err != nil {
		return nil, false, domain.WrapError(domain.ErrCodeInvalid, "invalid dueDate", err)
	}
	if raw == "" {
		return nil, true, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, domain.WrapError(domain.ErrCodeInvalid, "invalid dueDate", err)
	}
	return &parsed, true, nil
}

// ListQuery holds the filter and sort options carried in a query string.
type ListQuery struct {
	Criteria  taskUC.Criteria
	SortBy    taskUC.SortBy
	Direction taskUC.Direction
}

// ParseListQuery reads status, priority, search, tags (comma separated),
// sortBy and direction from query arguments.
func ParseListQuery(args *fasthttp.Args) (ListQuery, error) {
	var q ListQuery
	if raw := string(args.Peek("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return q, err
		}
		q.Criteria.Status = status
	}
	if raw := string(args.Peek("priority")); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return q, err
		}
		q.Criteria.Priority = priority
	}
	q.Criteria.Search = string(args.Peek("search"))
	if raw := string(args.Peek("tags")); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Criteria.Tags = append(q.Criteria.Tags, tag)
			}
		}
	}
	q.SortBy = taskUC.ParseSortBy(string(args.Peek("sortBy")))
	q.Direction = taskUC.ParseDirection(string(args.Peek("direction")))
	return q, nil
}

// Encode writes the query back into args, omitting empty values.
func (q ListQuery) Encode(args *fasthttp.Args) {
	set := func(key, value string) {
		if value == "" {
			args.Del(key)
			return
		}
		args.Set(key, value)
	}
	set("status", string(q.Criteria.Status))
	set("priority", string(q.Criteria.Priority))
	set("search", q.Criteria.Search)
	set("tags", strings.Join(q.Criteria.Tags, ","))
	set("sortBy", string(q.SortBy))
	set("direction", string(q.Direction))
}
