package handler

import (
	"testing"

	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewRequest_AllocatesFreshPayload(t *testing.T) {
	title := "stale"
	template := &model.CreateTodoPayload{Title: &title}

	first := newRequest(template)
	second := newRequest(template)

	assert.NotSame(t, template, first)
	assert.NotSame(t, first, second)
	assert.Nil(t, first.Title)
}
