package memstore

import (
	"context"
	"testing"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func begin(t *testing.T, s *Store) store.Session {
	t.Helper()
	sess, err := s.Begin(context.Background())
	require.NoError(t, err)
	return sess
}

func TestSession_WritesAreInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	s := New()

	writer := begin(t, s)
	todo := model.Todo{Title: "Buy milk"}
	require.NoError(t, writer.Insert(ctx, &todo))
	assert.Equal(t, int64(1), todo.ID)

	// The writer sees its own flush.
	own, err := writer.Query(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// Another session does not.
	reader := begin(t, s)
	others, err := reader.Query(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, others)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, writer.Commit(ctx))
	assert.Equal(t, 1, s.Len())
}

func TestSession_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	sess := begin(t, s)
	require.NoError(t, sess.Insert(ctx, &model.Todo{Title: "a"}))
	require.NoError(t, sess.Rollback(ctx))
	assert.Equal(t, 0, s.Len())

	// Rolled back ids are not reused.
	next := begin(t, s)
	todo := model.Todo{Title: "b"}
	require.NoError(t, next.Insert(ctx, &todo))
	assert.Equal(t, int64(2), todo.ID)
}

func TestSession_ClosedSessionRejectsUse(t *testing.T) {
	ctx := context.Background()
	sess := begin(t, New())
	require.NoError(t, sess.Commit(ctx))

	_, err := sess.Query(ctx, store.Filter{})
	assert.ErrorIs(t, err, store.ErrSessionClosed)
	assert.ErrorIs(t, sess.Commit(ctx), store.ErrSessionClosed)
	assert.NoError(t, sess.Rollback(ctx))
}

func TestSession_QueryFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	seed := begin(t, s)
	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, seed.Insert(ctx, &model.Todo{Title: title}))
	}
	require.NoError(t, seed.Commit(ctx))

	sess := begin(t, s)
	all, err := sess.Query(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	one, err := sess.Query(ctx, store.ByID(2))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "two", one[0].Title)

	none, err := sess.Query(ctx, store.ByID(42))
	require.NoError(t, err)
	assert.Empty(t, none)

	limited, err := sess.Query(ctx, store.Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSession_UpdateOfConcurrentlyDeletedRowIsDropped(t *testing.T) {
	ctx := context.Background()
	s := New()

	seed := begin(t, s)
	todo := model.Todo{Title: "x"}
	require.NoError(t, seed.Insert(ctx, &todo))
	require.NoError(t, seed.Commit(ctx))

	updater := begin(t, s)
	todo.Completed = true
	require.NoError(t, updater.Update(ctx, &todo))

	deleter := begin(t, s)
	require.NoError(t, deleter.Delete(ctx, &todo))
	require.NoError(t, deleter.Commit(ctx))

	require.NoError(t, updater.Commit(ctx))
	assert.Equal(t, 0, s.Len())
}

func TestSession_WriteAfterConcurrentDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	seed := begin(t, s)
	todo := model.Todo{Title: "a"}
	require.NoError(t, seed.Insert(ctx, &todo))
	require.NoError(t, seed.Commit(ctx))

	// The writer looks the row up, then another session removes it.
	writer := begin(t, s)
	found, err := writer.Query(ctx, store.ByID(todo.ID))
	require.NoError(t, err)
	require.Len(t, found, 1)

	deleter := begin(t, s)
	require.NoError(t, deleter.Delete(ctx, &todo))
	require.NoError(t, deleter.Commit(ctx))

	updated := model.Todo{ID: todo.ID, Title: "b", Completed: true}
	assert.ErrorIs(t, writer.Update(ctx, &updated), store.ErrNotFound)
	assert.ErrorIs(t, writer.Delete(ctx, &updated), store.ErrNotFound)
	require.NoError(t, writer.Commit(ctx))
	assert.Equal(t, 0, s.Len())
}

func TestStore_BeginHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
