package cerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/todo/pkg/clog"
	"github.com/kazz187/todo/pkg/storage"
)

func TestNewError_StackOnlyForServerFaults(t *testing.T) {
	assert.Empty(t, NewError(NotFound, "Task not found", nil).Stack)
	assert.Empty(t, NewError(InvalidArgument, "Title is required", nil).Stack)
	assert.NotEmpty(t, NewError(Internal, "server error", nil).Stack)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "[not_found] Task not found", NewError(NotFound, "Task not found", nil).Error())
	assert.Equal(t, "[internal] server error: disk full",
		NewError(Internal, "server error", errors.New("disk full")).Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, Unknown, CodeOf(errors.New("plain")))
	wrapped := fmt.Errorf("outer: %w", NewError(NotFound, "x", nil))
	assert.Equal(t, NotFound, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, NotFound))
	assert.False(t, IsCode(wrapped, Internal))
}

func TestMaskInternal(t *testing.T) {
	assert.NoError(t, MaskInternal(nil, "x"))

	notFound := NewError(NotFound, "Task not found", nil)
	assert.Same(t, notFound, MaskInternal(notFound, "Failed to update task"))

	masked := MaskInternal(errors.New("connection refused"), "Failed to update task")
	var cErr *Error
	require.ErrorAs(t, masked, &cErr)
	assert.Equal(t, Internal, cErr.Code)
	assert.Equal(t, "Failed to update task", cErr.Msg)
	assert.ErrorContains(t, masked, "connection refused")
}

func TestWrapStorageErrors(t *testing.T) {
	missing := fmt.Errorf("tasks/x.yaml: %w", storage.ErrNotFound)
	assert.True(t, IsCode(WrapStorageReadError("Task", missing), NotFound))
	assert.Equal(t, "Task not found", WrapStorageDeleteError("Task", missing).(*Error).Msg)
	assert.True(t, IsCode(WrapStorageReadError("Task", errors.New("io")), Internal))
	assert.True(t, IsCode(WrapStorageWriteError("Task", errors.New("io")), Internal))
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(clog.ContextWithSlog(req.Context()))
	NewJSONResponseChiMiddleware("Something went wrong!")(h).ServeHTTP(rec, req)
	return rec
}

func TestJSONResponseMiddleware_Success(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponseWithStatus(r.Context(), http.StatusCreated, map[string]string{"id": "1"})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}

func TestJSONResponseMiddleware_DefaultsTo200(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponse(r.Context(), []string{})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestJSONResponseMiddleware_ClientError(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetNewJSONError(r.Context(), InvalidArgument, "Title is required", nil)
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Title is required"}`, rec.Body.String())
}

func TestJSONResponseMiddleware_HidesUnknownErrors(t *testing.T) {
	var ctx context.Context
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
		SetJSONError(r.Context(), errors.New("pq: password authentication failed"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Something went wrong!"}`, rec.Body.String())
	assert.ErrorContains(t, clog.GetError(ctx), "password authentication failed")
}

func TestJSONResponseMiddleware_RecoversPanics(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		panic("nil map")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Something went wrong!"}`, rec.Body.String())
}
