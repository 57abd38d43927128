package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/rest"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(internal.Task), args.Error(1)
}

func (m *taskServiceMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *taskServiceMock) List(ctx context.Context) ([]internal.Task, error) {
	args := m.Called(ctx)

	var tasks []internal.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]internal.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) Search(ctx context.Context, query string) ([]internal.Task, error) {
	args := m.Called(ctx, query)

	var tasks []internal.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]internal.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpdateDetails(ctx context.Context, id int64, params internal.UpdateDetailsParams) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *taskServiceMock) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newRouter(svc rest.TaskService) *chi.Mux {
	router := chi.NewRouter()
	rest.NewTaskHandler(svc).Register(router)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	req := httptest.NewRequest(method, target, &reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	svc := new(taskServiceMock)
	svc.On("List", mock.Anything).Return([]internal.Task{
		{ID: 2, Title: "Walk dog", Description: "Morning", Status: internal.StatusOngoing, CreatedAt: createdAt.Add(time.Hour)},
		{ID: 1, Title: "Buy milk", Description: "2%", Status: internal.StatusTodo, CreatedAt: createdAt},
	}, nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodGet, "/tasks", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []rest.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, "Ongoing", got[0].Status)
	require.Equal(t, "Buy milk", got[1].Title)
	require.Equal(t, createdAt, got[1].CreatedAt)

	svc.AssertExpectations(t)
}

func TestTaskHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("List", mock.Anything).Return([]internal.Task{}, nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodGet, "/tasks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestTaskHandler_List_StoreError(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("List", mock.Anything).
		Return(nil, internal.WrapErrorf(errors.New("pq: connection refused"), internal.ErrorCodeUnknown, "repo all")).
		Once()

	rec := doRequest(t, newRouter(svc), http.MethodGet, "/tasks", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	// Driver internals never leak to the caller.
	require.Equal(t, "internal error", got.Error)
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	svc := new(taskServiceMock)
	svc.On("Create", mock.Anything, internal.CreateParams{Title: "Buy milk", Description: "2%"}).
		Return(internal.Task{
			ID:          1,
			Title:       "Buy milk",
			Description: "2%",
			Status:      internal.StatusTodo,
			CreatedAt:   createdAt,
		}, nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodPost, "/tasks",
		map[string]string{"title": "Buy milk", "description": "2%"})

	require.Equal(t, http.StatusCreated, rec.Code)

	var got rest.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, "Buy milk", got.Title)
	require.Equal(t, "2%", got.Description)
	require.Equal(t, "To Do", got.Status)
	require.Equal(t, createdAt, got.CreatedAt)

	svc.AssertExpectations(t)
}

func TestTaskHandler_Create_ValidationError(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("Create", mock.Anything, mock.Anything).
		Return(internal.Task{}, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "title is required")).
		Once()

	rec := doRequest(t, newRouter(svc), http.MethodPost, "/tasks",
		map[string]string{"title": "   ", "description": "2%"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Contains(t, got.Error, "title is required")
}

func TestTaskHandler_Create_MalformedBody(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("UpdateStatus", mock.Anything, int64(1), internal.StatusOngoing).Return(nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/1/status",
		map[string]string{"status": "Ongoing"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Status updated successfully"}`, rec.Body.String())

	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateStatus_MissingIDIsNoOp(t *testing.T) {
	t.Parallel()

	// The store reports zero rows affected, the contract is still success.
	svc := new(taskServiceMock)
	svc.On("UpdateStatus", mock.Anything, int64(999), internal.StatusComplete).Return(nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/999/status",
		map[string]string{"status": "Complete"})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("UpdateStatus", mock.Anything, int64(1), internal.Status("Paused")).
		Return(internal.NewErrorf(internal.ErrorCodeInvalidArgument, `status "Paused"`)).
		Once()

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/1/status",
		map[string]string{"status": "Paused"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_UpdateStatus_NonNumericID(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/abc/status",
		map[string]string{"status": "Ongoing"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateStatus")
}

func TestTaskHandler_UpdateDetails(t *testing.T) {
	t.Parallel()

	newPtrStr := func(s string) *string { return &s }

	svc := new(taskServiceMock)
	svc.On("UpdateDetails", mock.Anything, int64(1), internal.UpdateDetailsParams{
		Title: newPtrStr("Buy oat milk"),
	}).Return(nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/1/edit",
		map[string]string{"title": "Buy oat milk"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Task updated successfully"}`, rec.Body.String())

	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateDetails_NoFields(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("UpdateDetails", mock.Anything, int64(1), internal.UpdateDetailsParams{}).
		Return(internal.NewErrorf(internal.ErrorCodeInvalidArgument, "at least one of title or description must be provided")).
		Once()

	rec := doRequest(t, newRouter(svc), http.MethodPut, "/tasks/1/edit", map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("Delete", mock.Anything, int64(1)).Return(nil).Twice()

	router := newRouter(svc)

	// Deleting twice succeeds both times.
	rec := doRequest(t, router, http.MethodDelete, "/tasks/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Task deleted successfully"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, "/tasks/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	svc.AssertExpectations(t)
}

func TestTaskHandler_Search(t *testing.T) {
	t.Parallel()

	svc := new(taskServiceMock)
	svc.On("Search", mock.Anything, "milk").Return([]internal.Task{
		{ID: 1, Title: "Buy milk", Description: "2%", Status: internal.StatusTodo},
	}, nil).Once()

	rec := doRequest(t, newRouter(svc), http.MethodGet, "/tasks/search?q=milk", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []rest.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Buy milk", got[0].Title)

	svc.AssertExpectations(t)
}
