package handler

import (
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/deppfellow/todo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type TodoHandler struct {
	Handler
	todoService *service.TodoService
}

func NewTodoHandler(s *server.Server, todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{
		Handler:     NewHandler(s),
		todoService: todoService,
	}
}

func (h *TodoHandler) ListTodos(c echo.Context, _ *model.ListTodosPayload) ([]model.Todo, error) {
	return h.todoService.ListTodos(c.Request().Context())
}

func (h *TodoHandler) CreateTodo(c echo.Context, payload *model.CreateTodoPayload) (*model.Todo, error) {
	return h.todoService.CreateTodo(c.Request().Context(), payload)
}

func (h *TodoHandler) UpdateTodo(c echo.Context, payload *model.UpdateTodoPayload) (*model.Todo, error) {
	return h.todoService.UpdateTodo(c.Request().Context(), payload)
}

// DeleteTodo responds with the todo as it was before removal.
func (h *TodoHandler) DeleteTodo(c echo.Context, payload *model.DeleteTodoPayload) (*model.Todo, error) {
	return h.todoService.DeleteTodo(c.Request().Context(), payload)
}
