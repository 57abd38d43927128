package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard/taskboard-api/internal"
)

const (
	msgStatusUpdated = "Status updated successfully"
	msgTaskUpdated   = "Task updated successfully"
	msgTaskDeleted   = "Task deleted successfully"
)

// TaskService defines the operations the handlers depend on.
type TaskService interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]internal.Task, error)
	Search(ctx context.Context, query string) ([]internal.Task, error)
	UpdateDetails(ctx context.Context, id int64, params internal.UpdateDetailsParams) error
	UpdateStatus(ctx context.Context, id int64, status internal.Status) error
}

// TaskHandler maps the HTTP surface onto the Task service.
type TaskHandler struct {
	svc TaskService
}

// NewTaskHandler instantiates the Task handler.
func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Register connects the handlers to the router.
func (t *TaskHandler) Register(r chi.Router) {
	r.Get("/tasks", t.list)
	r.Get("/tasks/search", t.search)
	r.Post("/tasks", t.create)
	r.Put("/tasks/{id}/status", t.updateStatus)
	r.Put("/tasks/{id}/edit", t.updateDetails)
	r.Delete("/tasks/{id}", t.delete)
}

// Task is a unit of work tracked on the board.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTaskRequest defines the request used for creating tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *string `json:"status"`
}

// UpdateTaskStatusRequest defines the request used for updating a task's
// status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTaskDetailsRequest defines the request used for editing a task's
// title and/or description.
type UpdateTaskDetailsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := t.svc.List(r.Context())
	if err != nil {
		renderErrorResponse(r.Context(), w, "Error fetching tasks", err)
		return
	}

	renderResponse(w, newTasks(tasks), http.StatusOK)
}

func (t *TaskHandler) search(w http.ResponseWriter, r *http.Request) {
	tasks, err := t.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		renderErrorResponse(r.Context(), w, "Error searching tasks", err)
		return
	}

	renderResponse(w, newTasks(tasks), http.StatusOK)
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	params := internal.CreateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		params.Status = internal.Status(*req.Status)
	}

	task, err := t.svc.Create(r.Context(), params)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Error creating task", err)
		return
	}

	renderResponse(w, newTask(task), http.StatusCreated)
}

func (t *TaskHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	if err := t.svc.UpdateStatus(r.Context(), id, internal.Status(req.Status)); err != nil {
		renderErrorResponse(r.Context(), w, "Error updating status", err)
		return
	}

	renderResponse(w, MessageResponse{Message: msgStatusUpdated}, http.StatusOK)
}

func (t *TaskHandler) updateDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	params := internal.UpdateDetailsParams{
		Title:       req.Title,
		Description: req.Description,
	}

	if err := t.svc.UpdateDetails(r.Context(), id, params); err != nil {
		renderErrorResponse(r.Context(), w, "Error updating task", err)
		return
	}

	renderResponse(w, MessageResponse{Message: msgTaskUpdated}, http.StatusOK)
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := t.svc.Delete(r.Context(), id); err != nil {
		renderErrorResponse(r.Context(), w, "Error deleting task", err)
		return
	}

	renderResponse(w, MessageResponse{Message: msgTaskDeleted}, http.StatusOK)
}

// parseID rejects non-numeric path ids before the service is invoked.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid task id",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "strconv.ParseInt"))
		return 0, false
	}

	return id, true
}

func newTask(task internal.Task) Task {
	return Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
	}
}

func newTasks(tasks []internal.Task) []Task {
	res := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		res = append(res, newTask(task))
	}

	return res
}
