package memcached

import (
	"context"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/taskboard/taskboard-api/internal"
)

const allTasksKey = "tasks:all"

// TaskStore defines the datastore being decorated.
type TaskStore interface {
	All(ctx context.Context) ([]internal.Task, error)
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (internal.Task, error)
	UpdateDetails(ctx context.Context, id int64, title, description *string) error
	UpdateStatus(ctx context.Context, id int64, status internal.Status) error
}

// Task decorates a TaskStore with cache-aside caching, individual tasks are
// cached by id and the full listing under a single key invalidated on every
// mutation.
type Task struct {
	client     *memcache.Client
	orig       TaskStore
	expiration time.Duration
	logger     *zap.Logger
}

// NewTask instantiates the Task store decorator.
func NewTask(client *memcache.Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// All returns the cached listing when fresh, falling back to the origin.
func (t *Task) All(ctx context.Context) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.All").End()

	var res []internal.Task
	if err := getValue(ctx, t.client, allTasksKey, &res); err == nil {
		return res, nil
	}

	res, err := t.orig.All(ctx)
	if err != nil {
		return nil, err
	}

	setValue(ctx, t.client, allTasksKey, res, t.expiration)

	return res, nil
}

// Create stores a new record and caches it.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	task, err := t.orig.Create(ctx, params)
	if err != nil {
		return internal.Task{}, err
	}

	setValue(ctx, t.client, taskKey(task.ID), &task, t.expiration)
	deleteKey(ctx, t.client, allTasksKey)

	return task, nil
}

// Delete removes the record and evicts it.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	if err := t.orig.Delete(ctx, id); err != nil {
		return err
	}

	deleteKey(ctx, t.client, taskKey(id))
	deleteKey(ctx, t.client, allTasksKey)

	return nil
}

// Find returns the cached task, caching the stored one on a miss.
func (t *Task) Find(ctx context.Context, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	var res internal.Task
	if err := getValue(ctx, t.client, taskKey(id), &res); err == nil {
		return res, nil
	}

	res, err := t.orig.Find(ctx, id)
	if err != nil {
		return internal.Task{}, err
	}

	setValue(ctx, t.client, taskKey(res.ID), &res, t.expiration)

	return res, nil
}

// UpdateDetails forwards the mutation and refreshes the cached task.
func (t *Task) UpdateDetails(ctx context.Context, id int64, title, description *string) error {
	defer newOTELSpan(ctx, "Task.UpdateDetails").End()

	if err := t.orig.UpdateDetails(ctx, id, title, description); err != nil {
		return err
	}

	t.refresh(ctx, id)

	return nil
}

// UpdateStatus forwards the mutation and refreshes the cached task.
func (t *Task) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	defer newOTELSpan(ctx, "Task.UpdateStatus").End()

	if err := t.orig.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	t.refresh(ctx, id)

	return nil
}

func (t *Task) refresh(ctx context.Context, id int64) {
	deleteKey(ctx, t.client, taskKey(id))
	deleteKey(ctx, t.client, allTasksKey)

	task, err := t.orig.Find(ctx, id)
	if err != nil {
		return
	}

	setValue(ctx, t.client, taskKey(task.ID), &task, t.expiration)
}

func taskKey(id int64) string {
	return "task:" + strconv.FormatInt(id, 10)
}
