package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/todo-backend/internal/errs"
	"github.com/deppfellow/todo-backend/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, body string, params map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	return c
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidate_CreateAcceptsEmptyTitle(t *testing.T) {
	payload := &model.CreateTodoPayload{}
	require.NoError(t, BindAndValidate(newContext(http.MethodPost, `{"title":""}`, nil), payload))
	require.NotNil(t, payload.Title)
	assert.Equal(t, "", *payload.Title)
}

func TestBindAndValidate_CreateRequiresTitle(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, `{}`, nil), &model.CreateTodoPayload{})

	httpErr := requireBadRequest(t, err)
	assert.True(t, httpErr.Override)
	assert.Equal(t, []errs.FieldError{{Field: "title", Error: "is required"}}, httpErr.Errors)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, `{"title":`, nil), &model.CreateTodoPayload{})

	httpErr := requireBadRequest(t, err)
	assert.False(t, httpErr.Override)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_UpdateTakesIDFromPath(t *testing.T) {
	payload := &model.UpdateTodoPayload{}
	c := newContext(http.MethodPut, `{"id":99,"title":"Buy milk","completed":false}`, map[string]string{"id": "7"})

	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, int64(7), payload.ID)
	assert.Equal(t, "Buy milk", *payload.Title)
	assert.False(t, *payload.Completed)
}

func TestBindAndValidate_UpdateRequiresBothFields(t *testing.T) {
	c := newContext(http.MethodPut, `{"title":"only title"}`, map[string]string{"id": "7"})

	httpErr := requireBadRequest(t, BindAndValidate(c, &model.UpdateTodoPayload{}))
	assert.Equal(t, []errs.FieldError{{Field: "completed", Error: "is required"}}, httpErr.Errors)
}

func TestBindAndValidate_NonNumericID(t *testing.T) {
	c := newContext(http.MethodDelete, "", map[string]string{"id": "abc"})
	requireBadRequest(t, BindAndValidate(c, &model.DeleteTodoPayload{}))
}

func TestBindAndValidate_NonPositiveID(t *testing.T) {
	c := newContext(http.MethodDelete, "", map[string]string{"id": "0"})

	httpErr := requireBadRequest(t, BindAndValidate(c, &model.DeleteTodoPayload{}))
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "is required"}}, httpErr.Errors)
}

type customPayload struct{}

func (customPayload) Validate() error {
	return CustomValidationErrors{{Field: "title", Message: "must not be blank"}}
}

func TestExtractValidationError_Custom(t *testing.T) {
	msg, fieldErrors := validateStruct(customPayload{})
	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, []errs.FieldError{{Field: "title", Error: "must not be blank"}}, fieldErrors)
}
