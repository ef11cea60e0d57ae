package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/todo-backend/internal/errs"
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/repository"
	"github.com/deppfellow/todo-backend/internal/store"
	"github.com/deppfellow/todo-backend/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func newMemoryService() (*TodoService, *memstore.Store) {
	st := memstore.New()
	return NewTodoService(st, repository.NewTodoRepository()), st
}

func TestTodoService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, st := newMemoryService()

	created, err := svc.CreateTodo(ctx, &model.CreateTodoPayload{Title: ptr("Buy milk")})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())

	updated, err := svc.UpdateTodo(ctx, &model.UpdateTodoPayload{
		ID:        created.ID,
		Title:     ptr("Buy milk"),
		Completed: ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	deleted, err := svc.DeleteTodo(ctx, &model.DeleteTodoPayload{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, *updated, *deleted)

	todos, err := svc.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoService_MissingIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()

	_, err := svc.UpdateTodo(ctx, &model.UpdateTodoPayload{ID: 9, Title: ptr("x"), Completed: ptr(false)})
	assertTodoNotFound(t, err)

	_, err = svc.DeleteTodo(ctx, &model.DeleteTodoPayload{ID: 9})
	assertTodoNotFound(t, err)
}

func assertTodoNotFound(t *testing.T, err error) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, ErrorCodeTodoNotFound, httpErr.Code)
}

// failingStore hands out sessions whose Commit fails and records whether
// they were rolled back.
type failingStore struct {
	sessions []*failingSession
	beginErr error
}

func (f *failingStore) Name() string { return "failing" }

func (f *failingStore) Begin(context.Context) (store.Session, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	s := &failingSession{}
	f.sessions = append(f.sessions, s)
	return s, nil
}

var errCommit = errors.New("commit refused")

type failingSession struct {
	rolledBack bool
}

func (s *failingSession) Query(context.Context, store.Filter) ([]model.Todo, error) {
	return []model.Todo{{ID: 1, Title: "existing"}}, nil
}
func (s *failingSession) Insert(_ context.Context, todo *model.Todo) error {
	todo.ID = 2
	return nil
}
func (s *failingSession) Update(context.Context, *model.Todo) error { return nil }
func (s *failingSession) Delete(context.Context, *model.Todo) error { return nil }
func (s *failingSession) Commit(context.Context) error              { return errCommit }
func (s *failingSession) Rollback(context.Context) error {
	s.rolledBack = true
	return nil
}

func TestTodoService_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{}
	svc := NewTodoService(st, repository.NewTodoRepository())

	_, err := svc.CreateTodo(ctx, &model.CreateTodoPayload{Title: ptr("a")})
	assert.ErrorIs(t, err, errCommit)

	_, err = svc.UpdateTodo(ctx, &model.UpdateTodoPayload{ID: 1, Title: ptr("b"), Completed: ptr(true)})
	assert.ErrorIs(t, err, errCommit)

	_, err = svc.DeleteTodo(ctx, &model.DeleteTodoPayload{ID: 1})
	assert.ErrorIs(t, err, errCommit)

	require.Len(t, st.sessions, 3)
	for _, s := range st.sessions {
		assert.True(t, s.rolledBack)
	}
}

func TestTodoService_ReadsAreRolledBack(t *testing.T) {
	st := &failingStore{}
	svc := NewTodoService(st, repository.NewTodoRepository())

	todos, err := svc.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.Len(t, st.sessions, 1)
	assert.True(t, st.sessions[0].rolledBack)
}

func TestTodoService_BeginFailure(t *testing.T) {
	beginErr := errors.New("pool exhausted")
	svc := NewTodoService(&failingStore{beginErr: beginErr}, repository.NewTodoRepository())

	_, err := svc.ListTodos(context.Background())
	assert.ErrorIs(t, err, beginErr)
}
