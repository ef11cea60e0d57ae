package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/store"
)

// TodoRepository implements the four todo operations over a caller-owned
// session. It holds no state of its own.
//
// Lookups report presence explicitly: Update and Delete return
// found=false, and no error, when the id does not exist. That includes a
// row removed by another session between the lookup and the write.
type TodoRepository struct{}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{}
}

// List returns every todo. The result is never nil.
func (r *TodoRepository) List(ctx context.Context, s store.Session) ([]model.Todo, error) {
	todos, err := s.Query(ctx, store.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Create persists a new, not yet completed todo and returns it with its
// assigned id. The title is stored as given.
func (r *TodoRepository) Create(ctx context.Context, s store.Session, title string) (model.Todo, error) {
	todo := model.Todo{Title: title, Completed: false}

	if err := s.Insert(ctx, &todo); err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	if err := s.Commit(ctx); err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update overwrites both the title and the completed flag of the todo with id.
func (r *TodoRepository) Update(ctx context.Context, s store.Session, id int64, title string, completed bool) (model.Todo, bool, error) {
	todo, found, err := r.first(ctx, s, id)
	if err != nil || !found {
		return model.Todo{}, false, wrap("update", id, err)
	}

	todo.Title = title
	todo.Completed = completed

	if err := s.Update(ctx, &todo); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Todo{}, false, nil
		}
		return model.Todo{}, false, wrap("update", id, err)
	}
	if err := s.Commit(ctx); err != nil {
		return model.Todo{}, false, wrap("update", id, err)
	}
	return todo, true, nil
}

// Delete removes the todo with id and returns it as it was before removal.
func (r *TodoRepository) Delete(ctx context.Context, s store.Session, id int64) (model.Todo, bool, error) {
	todo, found, err := r.first(ctx, s, id)
	if err != nil || !found {
		return model.Todo{}, false, wrap("delete", id, err)
	}

	if err := s.Delete(ctx, &todo); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Todo{}, false, nil
		}
		return model.Todo{}, false, wrap("delete", id, err)
	}
	if err := s.Commit(ctx); err != nil {
		return model.Todo{}, false, wrap("delete", id, err)
	}
	return todo, true, nil
}

func (r *TodoRepository) first(ctx context.Context, s store.Session, id int64) (model.Todo, bool, error) {
	todos, err := s.Query(ctx, store.ByID(id))
	if err != nil {
		return model.Todo{}, false, err
	}
	if len(todos) == 0 {
		return model.Todo{}, false, nil
	}
	return todos[0], true, nil
}

// wrap adds the operation and id to err. A nil err stays nil.
func wrap(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s todo %d: %w", op, id, err)
}
