package router

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/repository/memory"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type onlineStatus struct{}

func (onlineStatus) GetStatus() monitor.Status { return monitor.Status{Driver: "bolt", Storage: true} }

func newHandler(t *testing.T, secret string) fasthttp.RequestHandler {
	t.Helper()
	adapter := httpcontext.NewAdapter(time.Second)
	store := taskUC.New(memory.New(), nil)
	handlers := Handlers{
		Task:   apiHandler.NewTaskHandler(store, adapter, nil),
		Health: apiHandler.NewHealthHandler(onlineStatus{}, adapter, nil),
	}
	return New(handlers, middleware.JWTAuth(secret, nil)).Handler
}

func serve(h fasthttp.RequestHandler, method, uri, body, token string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	h(ctx)
	return ctx
}

func TestRouter_TaskRoutes(t *testing.T) {
	h := newHandler(t, "")

	created := serve(h, http.MethodPost, "/api/v1/tasks", `{"title":"routed"}`, "")
	require.Equal(t, http.StatusCreated, created.Response.StatusCode())

	seed := serve(h, http.MethodPost, "/api/v1/samples", "", "")
	assert.Equal(t, http.StatusOK, seed.Response.StatusCode())

	for _, uri := range []string{"/api/v1/tasks", "/api/v1/tags", "/api/v1/board", "/health"} {
		ctx := serve(h, http.MethodGet, uri, "", "")
		assert.Equal(t, http.StatusOK, ctx.Response.StatusCode(), uri)
	}

	missing := serve(h, http.MethodDelete, "/api/v1/tasks/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, missing.Response.StatusCode())

	put := serve(h, http.MethodPut, "/api/v1/tasks/unknown", `{"title":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, put.Response.StatusCode())
}

func TestRouter_JWTProtectsTaskRoutes(t *testing.T) {
	secret := "s3cret"
	h := newHandler(t, secret)

	denied := serve(h, http.MethodGet, "/api/v1/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, denied.Response.StatusCode())

	health := serve(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, health.Response.StatusCode())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	allowed := serve(h, http.MethodGet, "/api/v1/tasks", "", token)
	assert.Equal(t, http.StatusOK, allowed.Response.StatusCode())
}
