// Package pgxstore runs todo sessions as raw SQL over pgx transactions.
//
// Each session is one pgx.Tx taken from the shared pool. Writes use
// RETURNING so the caller's struct reflects the stored row right after
// the flush.
package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = "id, title, completed"

// Store opens pgx transaction sessions on a pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Name() string {
	return "pgx"
}

func (s *Store) Begin(ctx context.Context) (store.Session, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin pgx transaction: %w", err)
	}
	return &session{tx: tx}, nil
}

type session struct {
	tx pgx.Tx
}

func (s *session) Query(ctx context.Context, filter store.Filter) ([]model.Todo, error) {
	sql, args := buildQuery(filter)

	rows, err := s.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Todo])
	if err != nil {
		return nil, fmt.Errorf("scan todos: %w", err)
	}
	return todos, nil
}

// buildQuery renders the SELECT for filter with positional arguments.
func buildQuery(filter store.Filter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString("SELECT " + todoColumns + " FROM todos")
	if filter.ID != 0 {
		args = append(args, filter.ID)
		fmt.Fprintf(&sb, " WHERE id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

func (s *session) Insert(ctx context.Context, todo *model.Todo) error {
	row := s.tx.QueryRow(ctx,
		`INSERT INTO todos (title, completed) VALUES ($1, $2) RETURNING `+todoColumns,
		todo.Title, todo.Completed,
	)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (s *session) Update(ctx context.Context, todo *model.Todo) error {
	row := s.tx.QueryRow(ctx,
		`UPDATE todos SET title = $1, completed = $2 WHERE id = $3 RETURNING `+todoColumns,
		todo.Title, todo.Completed, todo.ID,
	)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
		// sqlerr reads the table name out of the "table:<name>:" prefix.
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("table:todos: update todo %d: %w: %w", todo.ID, store.ErrNotFound, err)
		}
		return fmt.Errorf("update todo %d: %w", todo.ID, err)
	}
	return nil
}

func (s *session) Delete(ctx context.Context, todo *model.Todo) error {
	tag, err := s.tx.Exec(ctx, `DELETE FROM todos WHERE id = $1`, todo.ID)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", todo.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:todos: delete todo %d: %w: %w", todo.ID, store.ErrNotFound, pgx.ErrNoRows)
	}
	return nil
}

func (s *session) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return store.ErrSessionClosed
		}
		return fmt.Errorf("commit pgx transaction: %w", err)
	}
	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback pgx transaction: %w", err)
	}
	return nil
}
