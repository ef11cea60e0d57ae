package service

import (
	"github.com/deppfellow/todo-backend/internal/repository"
	"github.com/deppfellow/todo-backend/internal/server"
)

type Services struct {
	Todo *TodoService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Todo: NewTodoService(repos.Store, repos.Todo),
	}, nil
}
