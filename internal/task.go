package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status indicates the board column a Task currently belongs to.
type Status string

const (
	// StatusTodo is the initial status of every task unless overridden.
	StatusTodo Status = "To Do"

	// StatusOngoing indicates work on the task started.
	StatusOngoing Status = "Ongoing"

	// StatusComplete indicates the task is finished.
	StatusComplete Status = "Complete"
)

// Validate indicates whether the receiver is one of the supported statuses.
// Any status may transition to any other status, including itself.
func (s Status) Validate() error {
	if err := validation.Validate(string(s),
		validation.Required,
		validation.In(string(StatusTodo), string(StatusOngoing), string(StatusComplete)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "status %q", s)
	}

	return nil
}

// Task is a unit of work tracked on the board.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
}

// Validate indicates whether all the fields are valid for persisting.
func (t Task) Validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Required),
		validation.Field(&t.Description, validation.Required),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	return t.Status.Validate()
}

// CreateParams defines the arguments used for creating tasks. Title and
// Description must be non-empty after trimming, Status defaults to
// StatusTodo when left blank.
type CreateParams struct {
	Title       string
	Description string
	Status      Status
}

// Normalized returns a copy with whitespace trimmed and the status defaulted.
func (c CreateParams) Normalized() CreateParams {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)

	if c.Status == "" {
		c.Status = StatusTodo
	}

	return c
}

// Validate indicates whether the receiver describes a persistable task.
func (c CreateParams) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required.Error("title is required")),
		validation.Field(&c.Description, validation.Required.Error("description is required")),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	return c.Status.Validate()
}

// UpdateDetailsParams defines the arguments used for editing a task's title
// and/or description, patching only the fields that were supplied. The status
// is never touched by this operation.
type UpdateDetailsParams struct {
	Title       *string
	Description *string
}

// Normalized returns a copy with the supplied fields trimmed.
func (u UpdateDetailsParams) Normalized() UpdateDetailsParams {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		u.Title = &title
	}

	if u.Description != nil {
		description := strings.TrimSpace(*u.Description)
		u.Description = &description
	}

	return u
}

// Validate indicates whether at least one field was supplied and every
// supplied field is non-empty.
func (u UpdateDetailsParams) Validate() error {
	if u.Title == nil && u.Description == nil {
		return NewErrorf(ErrorCodeInvalidArgument, "at least one of title or description must be provided")
	}

	if u.Title != nil {
		if err := validation.Validate(*u.Title, validation.Required.Error("title cannot be empty")); err != nil {
			return WrapErrorf(err, ErrorCodeInvalidArgument, "title")
		}
	}

	if u.Description != nil {
		if err := validation.Validate(*u.Description, validation.Required.Error("description cannot be empty")); err != nil {
			return WrapErrorf(err, ErrorCodeInvalidArgument, "description")
		}
	}

	return nil
}
