package db

import (
	"time"
)

// Status mirrors the task_status enum defined in the tasks table.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusOngoing  Status = "ongoing"
	StatusComplete Status = "complete"
)

// Tasks represents a row in the tasks table.
type Tasks struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
}
