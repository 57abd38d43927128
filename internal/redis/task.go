// Package redis implements the same store decoration as package memcached
// for deployments that already run Redis.
package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	rv8 "github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/taskboard/taskboard-api/internal"
)

const (
	otelName    = "github.com/taskboard/taskboard-api/internal/redis"
	allTasksKey = "tasks:all"
)

// TaskStore defines the datastore being decorated.
type TaskStore interface {
	All(ctx context.Context) ([]internal.Task, error)
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (internal.Task, error)
	UpdateDetails(ctx context.Context, id int64, title, description *string) error
	UpdateStatus(ctx context.Context, id int64, status internal.Status) error
}

// Task decorates a TaskStore with cache-aside caching backed by Redis,
// values are stored as JSON with a fixed TTL.
type Task struct {
	client     *rv8.Client
	orig       TaskStore
	expiration time.Duration
	logger     *zap.Logger
}

// NewTask instantiates the Task store decorator.
func NewTask(client *rv8.Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// All returns the cached listing when fresh, falling back to the origin.
func (t *Task) All(ctx context.Context) ([]internal.Task, error) {
	defer t.newOTELSpan(ctx, "Task.All").End()

	var res []internal.Task
	if err := t.getValue(ctx, allTasksKey, &res); err == nil {
		return res, nil
	}

	res, err := t.orig.All(ctx)
	if err != nil {
		return nil, err
	}

	t.setValue(ctx, allTasksKey, res)

	return res, nil
}

// Create stores a new record and caches it.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer t.newOTELSpan(ctx, "Task.Create").End()

	task, err := t.orig.Create(ctx, params)
	if err != nil {
		return internal.Task{}, err
	}

	t.setValue(ctx, taskKey(task.ID), &task)
	t.deleteKey(ctx, allTasksKey)

	return task, nil
}

// Delete removes the record and evicts it.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer t.newOTELSpan(ctx, "Task.Delete").End()

	if err := t.orig.Delete(ctx, id); err != nil {
		return err
	}

	t.deleteKey(ctx, taskKey(id))
	t.deleteKey(ctx, allTasksKey)

	return nil
}

// Find returns the cached task, caching the stored one on a miss.
func (t *Task) Find(ctx context.Context, id int64) (internal.Task, error) {
	defer t.newOTELSpan(ctx, "Task.Find").End()

	var res internal.Task
	if err := t.getValue(ctx, taskKey(id), &res); err == nil {
		return res, nil
	}

	res, err := t.orig.Find(ctx, id)
	if err != nil {
		return internal.Task{}, err
	}

	t.setValue(ctx, taskKey(res.ID), &res)

	return res, nil
}

// UpdateDetails forwards the mutation and refreshes the cached task.
func (t *Task) UpdateDetails(ctx context.Context, id int64, title, description *string) error {
	defer t.newOTELSpan(ctx, "Task.UpdateDetails").End()

	if err := t.orig.UpdateDetails(ctx, id, title, description); err != nil {
		return err
	}

	t.refresh(ctx, id)

	return nil
}

// UpdateStatus forwards the mutation and refreshes the cached task.
func (t *Task) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	defer t.newOTELSpan(ctx, "Task.UpdateStatus").End()

	if err := t.orig.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	t.refresh(ctx, id)

	return nil
}

func (t *Task) refresh(ctx context.Context, id int64) {
	t.deleteKey(ctx, taskKey(id))
	t.deleteKey(ctx, allTasksKey)

	task, err := t.orig.Find(ctx, id)
	if err != nil {
		return
	}

	t.setValue(ctx, taskKey(task.ID), &task)
}

func (t *Task) getValue(ctx context.Context, key string, target interface{}) error {
	data, err := t.client.Get(ctx, key).Bytes()
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	if err := json.Unmarshal(data, target); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Unmarshal")
	}

	return nil
}

func (t *Task) setValue(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := t.client.Set(ctx, key, data, t.expiration).Err(); err != nil {
		t.logger.Warn("client.Set", zap.Error(err))
	}
}

func (t *Task) deleteKey(ctx context.Context, key string) {
	_ = t.client.Del(ctx, key).Err()
}

func taskKey(id int64) string {
	return "task:" + strconv.FormatInt(id, 10)
}

func (t *Task) newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemRedis)

	return span
}
