package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/service"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) All(ctx context.Context) ([]internal.Task, error) {
	args := m.Called(ctx)

	var tasks []internal.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]internal.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskRepositoryMock) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(internal.Task), args.Error(1)
}

func (m *taskRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *taskRepositoryMock) Find(ctx context.Context, id int64) (internal.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(internal.Task), args.Error(1)
}

func (m *taskRepositoryMock) UpdateDetails(ctx context.Context, id int64, title, description *string) error {
	args := m.Called(ctx, id, title, description)
	return args.Error(0)
}

func (m *taskRepositoryMock) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type taskSearchRepositoryMock struct {
	mock.Mock
}

func (m *taskSearchRepositoryMock) Search(ctx context.Context, query string) ([]internal.Task, error) {
	args := m.Called(ctx, query)

	var tasks []internal.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]internal.Task)
	}
	return tasks, args.Error(1)
}

type taskMessageBrokerRepositoryMock struct {
	mock.Mock
}

func (m *taskMessageBrokerRepositoryMock) Created(ctx context.Context, task internal.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *taskMessageBrokerRepositoryMock) Deleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *taskMessageBrokerRepositoryMock) Updated(ctx context.Context, task internal.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func newService(repo *taskRepositoryMock, search *taskSearchRepositoryMock, broker *taskMessageBrokerRepositoryMock) *service.Task {
	return service.NewTask(zap.NewNop(), repo, search, broker)
}

func TestTask_Create(t *testing.T) {
	t.Parallel()

	created := internal.Task{
		ID:          1,
		Title:       "Buy milk",
		Description: "2%",
		Status:      internal.StatusTodo,
		CreatedAt:   time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
	}

	repo := new(taskRepositoryMock)
	repo.On("Create", mock.Anything, internal.CreateParams{
		Title:       "Buy milk",
		Description: "2%",
		Status:      internal.StatusTodo,
	}).Return(created, nil).Once()

	broker := new(taskMessageBrokerRepositoryMock)
	broker.On("Created", mock.Anything, created).Return(nil).Once()

	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	// Fields arrive untrimmed and without a status, both are normalized
	// before the store sees them.
	got, err := svc.Create(context.Background(), internal.CreateParams{
		Title:       "  Buy milk ",
		Description: " 2% ",
	})
	require.NoError(t, err)
	require.Equal(t, created, got)

	repo.AssertExpectations(t)
	broker.AssertExpectations(t)
}

func TestTask_Create_EchoesExplicitStatus(t *testing.T) {
	t.Parallel()

	created := internal.Task{ID: 2, Title: "a", Description: "b", Status: internal.StatusComplete}

	repo := new(taskRepositoryMock)
	repo.On("Create", mock.Anything, internal.CreateParams{
		Title:       "a",
		Description: "b",
		Status:      internal.StatusComplete,
	}).Return(created, nil).Once()

	broker := new(taskMessageBrokerRepositoryMock)
	broker.On("Created", mock.Anything, created).Return(nil).Once()

	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	got, err := svc.Create(context.Background(), internal.CreateParams{
		Title:       "a",
		Description: "b",
		Status:      internal.StatusComplete,
	})
	require.NoError(t, err)
	require.Equal(t, internal.StatusComplete, got.Status)

	repo.AssertExpectations(t)
}

func TestTask_Create_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params internal.CreateParams
	}{
		{name: "empty title", params: internal.CreateParams{Description: "2%"}},
		{name: "whitespace title", params: internal.CreateParams{Title: "   ", Description: "2%"}},
		{name: "empty description", params: internal.CreateParams{Title: "Buy milk"}},
		{name: "whitespace description", params: internal.CreateParams{Title: "Buy milk", Description: "\t"}},
		{name: "unknown status", params: internal.CreateParams{Title: "a", Description: "b", Status: "Archived"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Validation failures never reach the store.
			repo := new(taskRepositoryMock)
			svc := newService(repo, new(taskSearchRepositoryMock), new(taskMessageBrokerRepositoryMock))

			_, err := svc.Create(context.Background(), tt.params)
			require.Error(t, err)

			var ierr *internal.Error
			require.True(t, errors.As(err, &ierr))
			require.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())

			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestTask_Create_RepoError(t *testing.T) {
	t.Parallel()

	repo := new(taskRepositoryMock)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(internal.Task{}, internal.WrapErrorf(errors.New("conn refused"), internal.ErrorCodeUnknown, "pool.QueryRow")).
		Once()

	broker := new(taskMessageBrokerRepositoryMock)
	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	_, err := svc.Create(context.Background(), internal.CreateParams{Title: "a", Description: "b"})
	require.Error(t, err)

	broker.AssertNotCalled(t, "Created")
}

func TestTask_UpdateStatus(t *testing.T) {
	t.Parallel()

	task := internal.Task{ID: 1, Title: "a", Description: "b", Status: internal.StatusOngoing}

	repo := new(taskRepositoryMock)
	repo.On("UpdateStatus", mock.Anything, int64(1), internal.StatusOngoing).Return(nil).Twice()
	repo.On("Find", mock.Anything, int64(1)).Return(task, nil).Twice()

	broker := new(taskMessageBrokerRepositoryMock)
	broker.On("Updated", mock.Anything, task).Return(nil).Twice()

	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	// Idempotent: repeating the same status succeeds again.
	require.NoError(t, svc.UpdateStatus(context.Background(), 1, internal.StatusOngoing))
	require.NoError(t, svc.UpdateStatus(context.Background(), 1, internal.StatusOngoing))

	repo.AssertExpectations(t)
	broker.AssertExpectations(t)
}

func TestTask_UpdateStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	repo := new(taskRepositoryMock)
	svc := newService(repo, new(taskSearchRepositoryMock), new(taskMessageBrokerRepositoryMock))

	err := svc.UpdateStatus(context.Background(), 1, internal.Status("Paused"))
	require.Error(t, err)

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr))
	require.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())

	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestTask_UpdateStatus_MissingID(t *testing.T) {
	t.Parallel()

	// Zero rows affected is not an error, and nothing is published for a row
	// that cannot be materialized afterwards.
	repo := new(taskRepositoryMock)
	repo.On("UpdateStatus", mock.Anything, int64(999), internal.StatusComplete).Return(nil).Once()
	repo.On("Find", mock.Anything, int64(999)).
		Return(internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task 999 not found")).
		Once()

	broker := new(taskMessageBrokerRepositoryMock)
	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	require.NoError(t, svc.UpdateStatus(context.Background(), 999, internal.StatusComplete))

	broker.AssertNotCalled(t, "Updated")
}

func TestTask_UpdateDetails(t *testing.T) {
	t.Parallel()

	newPtrStr := func(s string) *string { return &s }

	task := internal.Task{ID: 1, Title: "new title", Description: "b", Status: internal.StatusTodo}

	repo := new(taskRepositoryMock)
	repo.On("UpdateDetails", mock.Anything, int64(1), newPtrStr("new title"), (*string)(nil)).Return(nil).Once()
	repo.On("Find", mock.Anything, int64(1)).Return(task, nil).Once()

	broker := new(taskMessageBrokerRepositoryMock)
	broker.On("Updated", mock.Anything, task).Return(nil).Once()

	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	err := svc.UpdateDetails(context.Background(), 1, internal.UpdateDetailsParams{Title: newPtrStr(" new title ")})
	require.NoError(t, err)

	repo.AssertExpectations(t)
	broker.AssertExpectations(t)
}

func TestTask_UpdateDetails_InvalidInput(t *testing.T) {
	t.Parallel()

	repo := new(taskRepositoryMock)
	svc := newService(repo, new(taskSearchRepositoryMock), new(taskMessageBrokerRepositoryMock))

	err := svc.UpdateDetails(context.Background(), 1, internal.UpdateDetailsParams{})
	require.Error(t, err)

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr))
	require.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())

	repo.AssertNotCalled(t, "UpdateDetails")
}

func TestTask_Delete(t *testing.T) {
	t.Parallel()

	repo := new(taskRepositoryMock)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Twice()

	broker := new(taskMessageBrokerRepositoryMock)
	broker.On("Deleted", mock.Anything, int64(1)).Return(nil).Twice()

	svc := newService(repo, new(taskSearchRepositoryMock), broker)

	// Deleting an already deleted task is a no-op, not an error.
	require.NoError(t, svc.Delete(context.Background(), 1))
	require.NoError(t, svc.Delete(context.Background(), 1))

	repo.AssertExpectations(t)
	broker.AssertExpectations(t)
}

func TestTask_List(t *testing.T) {
	t.Parallel()

	tasks := []internal.Task{
		{ID: 2, Title: "b", Description: "d", Status: internal.StatusOngoing, CreatedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 1, Title: "a", Description: "c", Status: internal.StatusTodo, CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	repo := new(taskRepositoryMock)
	repo.On("All", mock.Anything).Return(tasks, nil).Once()

	svc := newService(repo, new(taskSearchRepositoryMock), new(taskMessageBrokerRepositoryMock))

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, tasks, got)
}

func TestTask_Search(t *testing.T) {
	t.Parallel()

	search := new(taskSearchRepositoryMock)
	search.On("Search", mock.Anything, "milk").
		Return([]internal.Task{{ID: 1, Title: "Buy milk", Description: "2%", Status: internal.StatusTodo}}, nil).
		Once()

	svc := newService(new(taskRepositoryMock), search, new(taskMessageBrokerRepositoryMock))

	got, err := svc.Search(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, got, 1)

	search.AssertExpectations(t)
}
