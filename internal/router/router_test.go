package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/todo-backend/internal/config"
	"github.com/deppfellow/todo-backend/internal/errs"
	"github.com/deppfellow/todo-backend/internal/handler"
	"github.com/deppfellow/todo-backend/internal/logger"
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/repository"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/deppfellow/todo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, rateLimit float64) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          rateLimit,
		},
		Database:      config.DatabaseConfig{Session: config.SessionMemory},
		Observability: config.DefaultObservabilityConfig(),
	}

	log := zerolog.Nop()
	s, err := server.New(cfg, &log, &logger.LoggerService{})
	require.NoError(t, err)

	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)
	services, err := service.NewService(s, repos)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestTodoRoutes_Lifecycle(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/v1/todos", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Todo](t, rec)
	assert.Equal(t, model.Todo{ID: 1, Title: "Buy milk", Completed: false}, created)

	rec = do(t, e, http.MethodPut, "/api/v1/todos/1", `{"title":"Buy milk","completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk","completed":true}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []model.Todo{{ID: 1, Title: "Buy milk", Completed: true}}, decode[[]model.Todo](t, rec))

	rec = do(t, e, http.MethodDelete, "/api/v1/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk","completed":true}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/v1/todos", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTodoRoutes_UnprefixedPathsShareTheStore(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/todos", `{"title":"Walk dog"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Walk dog","completed":false}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/v1/todos", "")
	assert.Equal(t, []model.Todo{{ID: 1, Title: "Walk dog"}}, decode[[]model.Todo](t, rec))

	rec = do(t, e, http.MethodPut, "/todos/1", `{"title":"Walk dog","completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Walk dog","completed":true}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodDelete, "/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodoRoutes_MissingIDIsNotFound(t *testing.T) {
	e := newTestRouter(t, 0)

	for _, tc := range []struct{ method, body string }{
		{http.MethodPut, `{"title":"x","completed":false}`},
		{http.MethodDelete, ""},
	} {
		rec := do(t, e, tc.method, "/api/v1/todos/99", tc.body)
		require.Equal(t, http.StatusNotFound, rec.Code, tc.method)

		httpErr := decode[errs.HTTPError](t, rec)
		assert.Equal(t, service.ErrorCodeTodoNotFound, httpErr.Code)
		assert.Equal(t, "Todo not found", httpErr.Message)
	}
}

func TestTodoRoutes_ValidationErrors(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodPost, "/api/v1/todos", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	httpErr := decode[errs.HTTPError](t, rec)
	assert.Equal(t, []errs.FieldError{{Field: "title", Error: "is required"}}, httpErr.Errors)

	rec = do(t, e, http.MethodPost, "/api/v1/todos", `{"title":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/v1/todos/abc", `{"title":"x","completed":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/v1/todos/1", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoRoutes_EmptyTitleIsAccepted(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodPost, "/api/v1/todos", `{"title":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "", decode[model.Todo](t, rec).Title)
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodGet, "/api/v1/nothing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	e := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = do(t, e, http.MethodGet, "/api/v1/todos", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Status(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.SessionMemory, body["session"])
	assert.Equal(t, map[string]any{"database": map[string]any{"status": "disabled"}}, body["checks"])
}

func TestRouter_RateLimit(t *testing.T) {
	e := newTestRouter(t, 1)

	rec := do(t, e, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode[errs.HTTPError](t, rec).Code)
}
