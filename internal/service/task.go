package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/taskboard/taskboard-api/internal"
)

const otelName = "github.com/taskboard/taskboard-api/internal/service"

// TaskRepository defines the datastore handling persisting Task records.
type TaskRepository interface {
	All(ctx context.Context) ([]internal.Task, error)
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (internal.Task, error)
	UpdateDetails(ctx context.Context, id int64, title, description *string) error
	UpdateStatus(ctx context.Context, id int64, status internal.Status) error
}

// TaskSearchRepository defines the datastore handling searching Task records.
type TaskSearchRepository interface {
	Search(ctx context.Context, query string) ([]internal.Task, error)
}

// TaskMessageBrokerRepository defines the broker publishing Task mutations.
type TaskMessageBrokerRepository interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, id int64) error
	Updated(ctx context.Context, task internal.Task) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task struct {
	logger    *zap.Logger
	repo      TaskRepository
	search    TaskSearchRepository
	msgBroker TaskMessageBrokerRepository
}

// NewTask instantiates the Task service.
func NewTask(logger *zap.Logger, repo TaskRepository, search TaskSearchRepository, msgBroker TaskMessageBrokerRepository) *Task {
	return &Task{
		logger:    logger,
		repo:      repo,
		search:    search,
		msgBroker: msgBroker,
	}
}

// List returns every existing task ordered by creation time, newest first.
func (t *Task) List(ctx context.Context) ([]internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.List")
	defer span.End()

	res, err := t.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo all: %w", err)
	}

	return res, nil
}

// Create validates the received values and stores a new record. Title and
// Description are trimmed before validation and the status defaults to
// "To Do" when left blank.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Create")
	defer span.End()

	params = params.Normalized()

	if err := params.Validate(); err != nil {
		return internal.Task{}, fmt.Errorf("params validate: %w", err)
	}

	task, err := t.repo.Create(ctx, params)
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo create: %w", err)
	}

	if err := t.msgBroker.Created(ctx, task); err != nil {
		t.logger.Warn("msgBroker created", zap.Error(err))
	}

	return task, nil
}

// UpdateStatus mutates only the status of the task matching id. Any status
// may move to any other status, repeating the current one included. Updating
// a missing id is a no-op, mirroring the zero-rows-affected store behavior.
func (t *Task) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.UpdateStatus")
	defer span.End()

	if err := status.Validate(); err != nil {
		return fmt.Errorf("status validate: %w", err)
	}

	if err := t.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("repo update status: %w", err)
	}

	t.publishUpdated(ctx, id)

	return nil
}

// UpdateDetails mutates the title and/or description of the task matching
// id, patching only the supplied fields. The status is never touched.
func (t *Task) UpdateDetails(ctx context.Context, id int64, params internal.UpdateDetailsParams) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.UpdateDetails")
	defer span.End()

	params = params.Normalized()

	if err := params.Validate(); err != nil {
		return fmt.Errorf("params validate: %w", err)
	}

	if err := t.repo.UpdateDetails(ctx, id, params.Title, params.Description); err != nil {
		return fmt.Errorf("repo update details: %w", err)
	}

	t.publishUpdated(ctx, id)

	return nil
}

// Delete removes the task matching id, succeeding even when it was already
// gone.
func (t *Task) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo delete: %w", err)
	}

	if err := t.msgBroker.Deleted(ctx, id); err != nil {
		t.logger.Warn("msgBroker deleted", zap.Error(err))
	}

	return nil
}

// Search returns the tasks whose title or description match the received
// query.
func (t *Task) Search(ctx context.Context, query string) ([]internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Search")
	defer span.End()

	res, err := t.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return res, nil
}

// publishUpdated best-effort publishes the current state of the task after a
// mutation. A missing row means the update was a no-op, nothing to publish.
func (t *Task) publishUpdated(ctx context.Context, id int64) {
	task, err := t.repo.Find(ctx, id)
	if err != nil {
		return
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("msgBroker updated", zap.Error(err))
	}
}
