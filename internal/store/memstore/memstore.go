// Package memstore is an in-memory store.Store.
//
// Sessions stage their writes and apply them on Commit, so an abandoned
// or rolled back session leaves the store untouched. Ids come from a
// store-wide counter and are handed out at Insert time, like a database
// sequence: a rolled back insert burns its id.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/store"
)

// Store is an in-memory implementation of store.Store.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byID   map[int64]model.Todo
	nextID int64
}

func New() *Store {
	return &Store{
		byID: make(map[int64]model.Todo),
	}
}

func (s *Store) Name() string {
	return "memory"
}

func (s *Store) Begin(ctx context.Context) (store.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{store: s}, nil
}

// Len reports the number of committed todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *Store) allocateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
)

type op struct {
	kind opKind
	todo model.Todo
}

type session struct {
	store   *Store
	pending []op
	closed  bool
}

// view returns the committed rows with this session's pending writes
// applied on top.
func (s *session) view() map[int64]model.Todo {
	s.store.mu.RLock()
	rows := make(map[int64]model.Todo, len(s.store.byID))
	for id, t := range s.store.byID {
		rows[id] = t
	}
	s.store.mu.RUnlock()

	applyOps(rows, s.pending)
	return rows
}

func applyOps(rows map[int64]model.Todo, ops []op) {
	for _, o := range ops {
		switch o.kind {
		case opInsert:
			rows[o.todo.ID] = o.todo
		case opUpdate:
			// A row deleted by a session that committed after this
			// update was staged stays deleted.
			if _, ok := rows[o.todo.ID]; ok {
				rows[o.todo.ID] = o.todo
			}
		case opDelete:
			delete(rows, o.todo.ID)
		}
	}
}

func (s *session) Query(ctx context.Context, filter store.Filter) ([]model.Todo, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	rows := s.view()
	out := make([]model.Todo, 0, len(rows))
	for _, t := range rows {
		if filter.ID != 0 && t.ID != filter.ID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *session) Insert(ctx context.Context, todo *model.Todo) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	todo.ID = s.store.allocateID()
	s.pending = append(s.pending, op{kind: opInsert, todo: *todo})
	return nil
}

func (s *session) Update(ctx context.Context, todo *model.Todo) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	if _, ok := s.view()[todo.ID]; !ok {
		return fmt.Errorf("update todo %d: %w", todo.ID, store.ErrNotFound)
	}
	s.pending = append(s.pending, op{kind: opUpdate, todo: *todo})
	return nil
}

func (s *session) Delete(ctx context.Context, todo *model.Todo) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	if _, ok := s.view()[todo.ID]; !ok {
		return fmt.Errorf("delete todo %d: %w", todo.ID, store.ErrNotFound)
	}
	s.pending = append(s.pending, op{kind: opDelete, todo: *todo})
	return nil
}

func (s *session) Commit(ctx context.Context) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	s.closed = true

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	applyOps(s.store.byID, s.pending)
	s.pending = nil
	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	s.closed = true
	s.pending = nil
	return nil
}

func (s *session) usable(ctx context.Context) error {
	if s.closed {
		return store.ErrSessionClosed
	}
	return ctx.Err()
}
