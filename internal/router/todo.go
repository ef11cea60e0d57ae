package router

import (
	"net/http"

	"github.com/deppfellow/todo-backend/internal/handler"
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/labstack/echo/v4"
)

func registerTodoRoutes(g *echo.Group, h *handler.Handlers) {
	todo := h.Todo
	todos := g.Group("/todos")

	todos.GET("", handler.Handle(todo.Handler, todo.ListTodos, http.StatusOK, &model.ListTodosPayload{}))
	todos.POST("", handler.Handle(todo.Handler, todo.CreateTodo, http.StatusCreated, &model.CreateTodoPayload{}))
	todos.PUT("/:id", handler.Handle(todo.Handler, todo.UpdateTodo, http.StatusOK, &model.UpdateTodoPayload{}))
	todos.DELETE("/:id", handler.Handle(todo.Handler, todo.DeleteTodo, http.StatusOK, &model.DeleteTodoPayload{}))
}
