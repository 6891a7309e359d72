package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/api/middleware"
	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service"
)

// TaskHandler holds the handlers for the task endpoints.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given task service.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /tasks.
// The creator is always the authenticated caller, never the body.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.CreateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     domain.Priority(req.Priority),
		AssignedToID: req.AssignedToID,
	}, userID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// List handles GET /tasks.
// Supports ?status=, ?priority=, ?filter=assigned|created and
// ?sort=dueDate query parameters. Unrecognized values are rejected.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), params, userID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /tasks/{id}.
// Any authenticated user may update any task. Every update appends an
// audit entry, even when the patch repeats the current values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	patch := service.UpdateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		patch.Status = &s
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, patch, userID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id}.
// Only the task's creator may delete it; other callers get a 403 and
// the task remains persisted.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, userID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskIDFromURL extracts and parses the {id} path parameter. On failure
// it writes a 400 response and returns ok=false.
func taskIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseListParams translates the listing query string into service
// params, rejecting values outside the allowed sets.
func parseListParams(r *http.Request) (service.ListTasksParams, error) {
	var params service.ListTasksParams
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return params, errInvalidQueryParam{"status", raw}
		}
		params.Status = &status
	}

	if raw := q.Get("priority"); raw != "" {
		priority := domain.Priority(raw)
		if !priority.Valid() {
			return params, errInvalidQueryParam{"priority", raw}
		}
		params.Priority = &priority
	}

	if raw := q.Get("filter"); raw != "" {
		if raw != service.FilterAssigned && raw != service.FilterCreated {
			return params, errInvalidQueryParam{"filter", raw}
		}
		params.Filter = raw
	}

	if raw := q.Get("sort"); raw != "" {
		if raw != "dueDate" {
			return params, errInvalidQueryParam{"sort", raw}
		}
		params.SortByDueDate = true
	}

	return params, nil
}

type errInvalidQueryParam struct {
	name  string
	value string
}

func (e errInvalidQueryParam) Error() string {
	return "Invalid value for query parameter " + e.name + ": " + e.value
}
