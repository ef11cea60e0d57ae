package service

import (
	"context"

	"github.com/deppfellow/todo-backend/internal/errs"
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/repository"
	"github.com/deppfellow/todo-backend/internal/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrorCodeTodoNotFound is returned to clients when an id matches no todo.
const ErrorCodeTodoNotFound = "TODO_NOT_FOUND"

// TodoService runs each todo operation in its own session: Begin, the
// repository call, then Rollback on the way out. Rollback after a
// successful commit is a no-op.
type TodoService struct {
	store store.Store
	repo  *repository.TodoRepository
}

func NewTodoService(st store.Store, repo *repository.TodoRepository) *TodoService {
	return &TodoService{store: st, repo: repo}
}

func (s *TodoService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.withSession(ctx, "list_todos", func(sess store.Session) error {
		var err error
		todos, err = s.repo.List(ctx, sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *TodoService) CreateTodo(ctx context.Context, payload *model.CreateTodoPayload) (*model.Todo, error) {
	var todo model.Todo
	err := s.withSession(ctx, "create_todo", func(sess store.Session) error {
		var err error
		todo, err = s.repo.Create(ctx, sess, *payload.Title)
		return err
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("todo_id", todo.ID).Msg("todo created")
	return &todo, nil
}

// UpdateTodo replaces both fields of the todo. A missing id yields a 404
// *errs.HTTPError.
func (s *TodoService) UpdateTodo(ctx context.Context, payload *model.UpdateTodoPayload) (*model.Todo, error) {
	var (
		todo  model.Todo
		found bool
	)
	err := s.withSession(ctx, "update_todo", func(sess store.Session) error {
		var err error
		todo, found, err = s.repo.Update(ctx, sess, payload.ID, *payload.Title, *payload.Completed)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, todoNotFound()
	}

	zerolog.Ctx(ctx).Info().
		Int64("todo_id", todo.ID).
		Bool("completed", todo.Completed).
		Msg("todo updated")
	return &todo, nil
}

// DeleteTodo removes the todo and returns it as it was. A missing id
// yields a 404 *errs.HTTPError.
func (s *TodoService) DeleteTodo(ctx context.Context, payload *model.DeleteTodoPayload) (*model.Todo, error) {
	var (
		todo  model.Todo
		found bool
	)
	err := s.withSession(ctx, "delete_todo", func(sess store.Session) error {
		var err error
		todo, found, err = s.repo.Delete(ctx, sess, payload.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, todoNotFound()
	}

	zerolog.Ctx(ctx).Info().Int64("todo_id", todo.ID).Msg("todo deleted")
	return &todo, nil
}

// withSession opens a session, runs fn in it and always rolls back
// afterwards. Errors are wrapped with a stack for the error handler.
func (s *TodoService) withSession(ctx context.Context, op string, fn func(store.Session) error) error {
	sess, err := s.store.Begin(ctx)
	if err != nil {
		return errors.Wrapf(err, "%s: begin %s session", op, s.store.Name())
	}
	defer func() {
		if rbErr := sess.Rollback(ctx); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Str("operation", op).Msg("session rollback failed")
		}
	}()

	if err := fn(sess); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

func todoNotFound() error {
	code := ErrorCodeTodoNotFound
	return errs.NewNotFoundError("Todo not found", true, &code)
}
