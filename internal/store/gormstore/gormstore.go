// Package gormstore runs todo sessions as gorm transactions.
//
// This is the ORM unit of work: each session wraps one *gorm.DB opened
// with Begin, writes flush immediately inside the transaction and Commit
// makes them durable.
package gormstore

import (
	"context"
	"fmt"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/deppfellow/todo-backend/internal/store"
	"gorm.io/gorm"
)

// Store opens gorm transaction sessions.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string {
	return "orm"
}

func (s *Store) Begin(ctx context.Context) (store.Session, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin gorm transaction: %w", tx.Error)
	}
	return &session{tx: tx}, nil
}

type session struct {
	tx   *gorm.DB
	done bool
}

func (s *session) Query(ctx context.Context, filter store.Filter) ([]model.Todo, error) {
	if s.done {
		return nil, store.ErrSessionClosed
	}

	q := s.tx.WithContext(ctx).Model(&model.Todo{})
	if filter.ID != 0 {
		q = q.Where("id = ?", filter.ID)
	}
	q = q.Order("id")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	todos := []model.Todo{}
	if err := q.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	return todos, nil
}

func (s *session) Insert(ctx context.Context, todo *model.Todo) error {
	if s.done {
		return store.ErrSessionClosed
	}
	if err := s.tx.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (s *session) Update(ctx context.Context, todo *model.Todo) error {
	if s.done {
		return store.ErrSessionClosed
	}
	// Select forces zero values (an empty title, completed=false) into the SET clause.
	result := s.tx.WithContext(ctx).
		Model(todo).
		Select("Title", "Completed").
		Updates(todo)
	if result.Error != nil {
		return fmt.Errorf("update todo %d: %w", todo.ID, result.Error)
	}
	// The row vanished between lookup and write.
	if result.RowsAffected == 0 {
		return fmt.Errorf("update todo %d: %w: %w", todo.ID, store.ErrNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *session) Delete(ctx context.Context, todo *model.Todo) error {
	if s.done {
		return store.ErrSessionClosed
	}
	result := s.tx.WithContext(ctx).Delete(todo)
	if result.Error != nil {
		return fmt.Errorf("delete todo %d: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete todo %d: %w: %w", todo.ID, store.ErrNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *session) Commit(ctx context.Context) error {
	if s.done {
		return store.ErrSessionClosed
	}
	s.done = true
	if err := s.tx.WithContext(ctx).Commit().Error; err != nil {
		return fmt.Errorf("commit gorm transaction: %w", err)
	}
	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.WithContext(ctx).Rollback().Error; err != nil {
		return fmt.Errorf("rollback gorm transaction: %w", err)
	}
	return nil
}
