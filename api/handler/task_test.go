package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/repository/memory"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

func newTaskHandler(t *testing.T) (*TaskHandler, *memory.Storage) {
	t.Helper()
	storage := memory.New()
	store := taskUC.New(storage, nil)
	return NewTaskHandler(store, httpcontext.NewAdapter(time.Second), nil), storage
}

func newRequest(method, uri, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func createTask(t *testing.T, h *TaskHandler, body string) domain.Task {
	t.Helper()
	ctx := newRequest(http.MethodPost, "/api/v1/tasks", body)
	h.CreateTask(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var task domain.Task
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &task))
	return task
}

func TestTaskHandler_CreateAndGet(t *testing.T) {
	h, _ := newTaskHandler(t)

	created := createTask(t, h, `{"title":"Write report","priority":"high","dueDate":"2024-05-01T10:00:00Z","tags":["work"]}`)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.PriorityHigh, created.Priority)
	assert.Equal(t, domain.StatusTodo, created.Status)
	require.NotNil(t, created.DueDate)

	ctx := newRequest(http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	ctx.SetUserValue("id", created.ID)
	h.GetTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.NotEmpty(t, ctx.Response.Header.Peek("X-Request-ID"))

	var found domain.Task
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &found))
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, []string{"work"}, found.Tags)
}

func TestTaskHandler_CreateRejectsBadInput(t *testing.T) {
	h, _ := newTaskHandler(t)

	for _, body := range []string{`{"status":"archived"}`, `{"dueDate":"tomorrow"}`, `{not json`} {
		ctx := newRequest(http.MethodPost, "/api/v1/tasks", body)
		h.CreateTask(ctx)
		assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode(), body)
		env := decode(t, ctx)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
	}
}

func TestTaskHandler_GetMissing(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := newRequest(http.MethodGet, "/api/v1/tasks/nope", "")
	ctx.SetUserValue("id", "nope")
	h.GetTask(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeNotFound), decode(t, ctx).Code)
}

func TestTaskHandler_UpdateClearsDueDate(t *testing.T) {
	h, _ := newTaskHandler(t)
	created := createTask(t, h, `{"title":"a","dueDate":"2024-05-01T10:00:00Z"}`)

	ctx := newRequest(http.MethodPatch, "/api/v1/tasks/"+created.ID, `{"status":"completed","dueDate":null}`)
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var updated domain.Task
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &updated))
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "a", updated.Title)
	assert.NotNil(t, updated.UpdatedAt)

	missing := newRequest(http.MethodPatch, "/api/v1/tasks/nope", `{"title":"x"}`)
	missing.SetUserValue("id", "nope")
	h.UpdateTask(missing)
	assert.Equal(t, http.StatusNotFound, missing.Response.StatusCode())
}

func TestTaskHandler_Delete(t *testing.T) {
	h, _ := newTaskHandler(t)
	created := createTask(t, h, `{"title":"gone"}`)

	ctx := newRequest(http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	ctx.SetUserValue("id", created.ID)
	h.DeleteTask(ctx)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())

	again := newRequest(http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	again.SetUserValue("id", created.ID)
	h.DeleteTask(again)
	assert.Equal(t, http.StatusNotFound, again.Response.StatusCode())
}

func TestTaskHandler_ListFiltersAndSorts(t *testing.T) {
	h, _ := newTaskHandler(t)
	createTask(t, h, `{"title":"banana","priority":"low","tags":["fruit"]}`)
	createTask(t, h, `{"title":"Apple","priority":"high","tags":["fruit","red"]}`)
	createTask(t, h, `{"title":"carrot","priority":"high"}`)

	ctx := newRequest(http.MethodGet, "/api/v1/tasks?tags=fruit&sortBy=title&direction=asc", "")
	h.GetTasks(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	env := decode(t, ctx)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Apple", tasks[0].Title)
	assert.Equal(t, "banana", tasks[1].Title)
	assert.JSONEq(t, `{"count":2,"query":"tags=fruit&sortBy=title&direction=asc"}`, string(env.Meta))

	bad := newRequest(http.MethodGet, "/api/v1/tasks?priority=urgent", "")
	h.GetTasks(bad)
	assert.Equal(t, http.StatusBadRequest, bad.Response.StatusCode())
}

func TestTaskHandler_ListEmptyIsArray(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := newRequest(http.MethodGet, "/api/v1/tasks", "")
	h.GetTasks(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `[]`, string(decode(t, ctx).Data))
}

func TestTaskHandler_TagsBoardAndSamples(t *testing.T) {
	h, _ := newTaskHandler(t)

	seed := newRequest(http.MethodPost, "/api/v1/samples", "")
	h.SeedSamples(seed)
	require.Equal(t, http.StatusOK, seed.Response.StatusCode())
	assert.JSONEq(t, `{"seeded":true}`, string(decode(t, seed).Data))

	again := newRequest(http.MethodPost, "/api/v1/samples", "")
	h.SeedSamples(again)
	assert.JSONEq(t, `{"seeded":false}`, string(decode(t, again).Data))

	tags := newRequest(http.MethodGet, "/api/v1/tags", "")
	h.GetTags(tags)
	var tagList []string
	require.NoError(t, json.Unmarshal(decode(t, tags).Data, &tagList))
	assert.Equal(t, []string{"work", "client", "team", "development", "learning", "documentation"}, tagList)

	board := newRequest(http.MethodGet, "/api/v1/board", "")
	h.GetBoard(board)
	require.Equal(t, http.StatusOK, board.Response.StatusCode())
	var got taskUC.Board
	require.NoError(t, json.Unmarshal(decode(t, board).Data, &got))
	require.Len(t, got.Columns, 3)
	assert.Equal(t, 2, got.Columns[0].Count)
}

func TestTaskHandler_CorruptStorageIs500(t *testing.T) {
	h, storage := newTaskHandler(t)
	storage.Raw([]byte(`{broken`))

	ctx := newRequest(http.MethodGet, "/api/v1/tasks", "")
	h.GetTasks(ctx)
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodePersistence), decode(t, ctx).Code)
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthHandler_Check(t *testing.T) {
	online := NewHealthHandler(staticStatus{Driver: "bolt", Storage: true}, nil, nil)
	ctx := newRequest(http.MethodGet, "/health", "")
	online.Check(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "success", decode(t, ctx).Status)

	offline := NewHealthHandler(staticStatus{Driver: "redis"}, nil, nil)
	ctx = newRequest(http.MethodGet, "/health", "")
	offline.Check(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.Equal(t, "DEGRADED", decode(t, ctx).Code)
}
