// Package store defines the unit-of-work contract the todo repository
// runs against.
//
// A Store opens Sessions. A Session is a scoped handle over the
// persistent todo collection: reads, flushed writes and a final commit
// happen inside it. Implementations live in the sub-packages:
//
//   - gormstore: gorm transactions (the ORM session)
//   - pgxstore:  raw SQL over pgx transactions
//   - memstore:  an in-process map, used by tests and local runs
//
// A Session is owned by one caller for one operation and must not be
// shared between goroutines. Stores are safe for concurrent use.
package store

import (
	"context"
	"errors"

	"github.com/deppfellow/todo-backend/internal/model"
)

var (
	// ErrSessionClosed is returned when a session is used after Commit or Rollback.
	ErrSessionClosed = errors.New("store: session already closed")

	// ErrNotFound is returned by Update and Delete when todo.ID matches
	// no stored row, typically because another session removed it after
	// the caller's lookup. Drivers may wrap their own no-rows error too.
	ErrNotFound = errors.New("store: todo not found")
)

// Filter narrows a Query. The zero Filter matches every todo.
type Filter struct {
	// ID restricts the result to the todo with this id when non-zero.
	ID int64

	// Limit caps the number of rows returned when positive.
	Limit int
}

// ByID returns a filter matching at most the todo with id.
func ByID(id int64) Filter {
	return Filter{ID: id, Limit: 1}
}

// Session is a unit of work against the todo collection.
type Session interface {
	// Query returns the todos matching filter, ordered by id.
	Query(ctx context.Context, filter Filter) ([]model.Todo, error)

	// Insert writes todo and flushes it, assigning todo.ID.
	Insert(ctx context.Context, todo *model.Todo) error

	// Update overwrites the stored title and completed flag of todo.ID
	// and flushes the change. It fails with ErrNotFound when the row is
	// gone.
	Update(ctx context.Context, todo *model.Todo) error

	// Delete removes todo.ID. It fails with ErrNotFound when the row is
	// gone.
	Delete(ctx context.Context, todo *model.Todo) error

	// Commit durably applies every pending write.
	Commit(ctx context.Context) error

	// Rollback discards pending writes. It is a no-op once the session
	// has been committed or rolled back.
	Rollback(ctx context.Context) error
}

// Store opens sessions.
type Store interface {
	Begin(ctx context.Context) (Session, error)

	// Name identifies the implementation in logs.
	Name() string
}
