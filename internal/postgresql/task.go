package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/postgresql/db"
)

const (
	selectAllQuery = `
SELECT id, title, description, status, created_at
FROM tasks
ORDER BY created_at DESC, id DESC`

	insertQuery = `
INSERT INTO tasks (title, description, status)
VALUES ($1, $2, $3)
RETURNING id, created_at`

	selectByIDQuery = `
SELECT id, title, description, status, created_at
FROM tasks
WHERE id = $1`

	updateStatusByIDQuery = `
UPDATE tasks
SET status = $1
WHERE id = $2`

	updateDetailsByIDQuery = `
UPDATE tasks
SET title = COALESCE($1, title), description = COALESCE($2, description)
WHERE id = $3`

	deleteByIDQuery = `
DELETE FROM tasks
WHERE id = $1`
)

// Task represents the repository used for interacting with Task records.
type Task struct {
	pool *pgxpool.Pool
}

// NewTask instantiates the Task repository.
func NewTask(pool *pgxpool.Pool) *Task {
	return &Task{pool: pool}
}

// All returns every existing task, newest first.
func (t *Task) All(ctx context.Context) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.All").End()

	rows, err := t.pool.Query(ctx, selectAllQuery)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Query")
	}
	defer rows.Close()

	res := make([]internal.Task, 0)

	for rows.Next() {
		var row db.Tasks
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Status, &row.CreatedAt); err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "rows.Scan")
		}

		task, err := convertTask(row)
		if err != nil {
			return nil, err
		}

		res = append(res, task)
	}

	if err := rows.Err(); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "rows.Err")
	}

	return res, nil
}

// Create inserts a new task record and returns it with the generated id and
// creation time, so no follow-up read is needed.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	task := internal.Task{
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
	}

	if err := t.pool.QueryRow(ctx, insertQuery,
		params.Title,
		params.Description,
		newStatus(params.Status),
	).Scan(&task.ID, &task.CreatedAt); err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.QueryRow")
	}

	return task, nil
}

// Find returns the task matching id.
func (t *Task) Find(ctx context.Context, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	var row db.Tasks

	if err := t.pool.QueryRow(ctx, selectByIDQuery, id).
		Scan(&row.ID, &row.Title, &row.Description, &row.Status, &row.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task %d not found", id)
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.QueryRow")
	}

	return convertTask(row)
}

// UpdateStatus mutates the status of the task matching id, leaving every
// other column untouched. Updating a missing id affects zero rows and is not
// an error.
func (t *Task) UpdateStatus(ctx context.Context, id int64, status internal.Status) error {
	defer newOTELSpan(ctx, "Task.UpdateStatus").End()

	if _, err := t.pool.Exec(ctx, updateStatusByIDQuery, newStatus(status), id); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Exec")
	}

	return nil
}

// UpdateDetails mutates the supplied fields of the task matching id, nil
// fields keep their stored value. The status column is never touched.
func (t *Task) UpdateDetails(ctx context.Context, id int64, title, description *string) error {
	defer newOTELSpan(ctx, "Task.UpdateDetails").End()

	if _, err := t.pool.Exec(ctx, updateDetailsByIDQuery, title, description, id); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Exec")
	}

	return nil
}

// Delete removes the task matching id, doing nothing when it does not exist.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	if _, err := t.pool.Exec(ctx, deleteByIDQuery, id); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Exec")
	}

	return nil
}

func convertTask(row db.Tasks) (internal.Task, error) {
	status, err := convertStatus(row.Status)
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "convertStatus")
	}

	return internal.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      status,
		CreatedAt:   row.CreatedAt,
	}, nil
}
