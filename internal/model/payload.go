package model

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ListTodosPayload carries no input; it exists so GET /todos runs through
// the same typed handler pipeline as the other routes.
type ListTodosPayload struct{}

func (p *ListTodosPayload) Validate() error {
	return nil
}

// CreateTodoPayload is the body of POST /todos.
//
// Title is a pointer so that "absent" and "empty" differ: the field must
// be present, but an empty title is a valid value.
type CreateTodoPayload struct {
	Title *string `json:"title" validate:"required"`
}

func (p *CreateTodoPayload) Validate() error {
	return validate.Struct(p)
}

// UpdateTodoPayload is the path id and body of PUT /todos/:id.
//
// ID comes from the path only; a body "id" is ignored.
type UpdateTodoPayload struct {
	ID        int64   `param:"id" json:"-" validate:"required,min=1"`
	Title     *string `json:"title" validate:"required"`
	Completed *bool   `json:"completed" validate:"required"`
}

func (p *UpdateTodoPayload) Validate() error {
	return validate.Struct(p)
}

// DeleteTodoPayload is the path id of DELETE /todos/:id.
type DeleteTodoPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (p *DeleteTodoPayload) Validate() error {
	return validate.Struct(p)
}
