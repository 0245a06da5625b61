package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type TaskHandler struct {
	baseHandler
	store *taskUC.Store
}

func NewTaskHandler(store *taskUC.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	query, err := transport.ParseListQuery(ctx.QueryArgs())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	tasks, err := h.store.Query(stdCtx, query.Criteria, query.SortBy, query.Direction)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	var normalized fasthttp.Args
	query.Encode(&normalized)
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(tasks, transport.ListMeta{
		Count: len(tasks),
		Query: normalized.String(),
	}))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.store.GetByID(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if task == nil {
		h.respondError(stdCtx, ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, err := transport.DecodeTaskRequest(ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	input, err := req.Input()
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	created, err := h.store.Add(stdCtx, input)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, err := transport.DecodeTaskRequest(ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	updated, err := h.store.Update(stdCtx, taskID(ctx), patch)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if updated == nil {
		h.respondError(stdCtx, ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	removed, err := h.store.Delete(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if !removed {
		h.respondError(stdCtx, ctx, domain.ErrTaskNotFound)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary List tags
// @Tags tasks
// @Router /api/v1/tags [get]
func (h *TaskHandler) GetTags(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tags, err := h.store.GetAllTags(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tags)
}

// @Summary Kanban board
// @Tags tasks
// @Router /api/v1/board [get]
func (h *TaskHandler) GetBoard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	query, err := transport.ParseListQuery(ctx.QueryArgs())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	board, err := h.store.Board(stdCtx, query.Criteria)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}

// @Summary Seed sample tasks
// @Tags tasks
// @Router /api/v1/samples [post]
func (h *TaskHandler) SeedSamples(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	seeded, err := h.store.InitializeWithSamples(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"seeded": seeded})
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
