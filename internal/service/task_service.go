package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// TaskTxManager runs a function against a TaskStore bound to a database
// transaction, so a task mutation and its audit entry commit atomically.
type TaskTxManager interface {
	WithTaskTx(ctx context.Context, fn func(ctx context.Context, ts store.TaskStore) error) error
}

// ListFilter values accepted by ListTasks.
const (
	// FilterAssigned narrows the listing to tasks assigned to the caller.
	FilterAssigned = "assigned"

	// FilterCreated narrows the listing to tasks created by the caller.
	FilterCreated = "created"
)

// CreateTaskParams carries the validated fields of a CreateTask call.
// The creator is never part of the params; it always comes from the
// authenticated caller.
type CreateTaskParams struct {
	Title        string
	Description  string
	DueDate      time.Time
	Priority     domain.Priority
	AssignedToID *uuid.UUID
}

// UpdateTaskParams carries the optional patch fields of an UpdateTask
// call. Nil fields are left unchanged.
type UpdateTaskParams struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Priority     *domain.Priority
	Status       *domain.Status
	AssignedToID *uuid.UUID
}

// ListTasksParams carries the query filters of a ListTasks call.
type ListTasksParams struct {
	Status   *domain.Status
	Priority *domain.Priority

	// Filter is FilterAssigned, FilterCreated or empty. Empty returns all
	// tasks: the domain is collaborative, every authenticated user may
	// read every task.
	Filter string

	// SortByDueDate orders by due date ascending instead of the default
	// creation time descending.
	SortByDueDate bool
}

// TaskService enforces task invariants (ownership, required fields),
// applies filters, records an audit trail on every update and emits
// lifecycle events. It holds no state itself.
type TaskService struct {
	taskStore store.TaskStore
	txManager TaskTxManager
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService with the given dependencies.
func NewTaskService(
	taskStore store.TaskStore,
	txManager TaskTxManager,
	emitter events.EventEmitter,
	log *slog.Logger,
) *TaskService {
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		taskStore: taskStore,
		txManager: txManager,
		emitter:   emitter,
		logger:    log.With(slog.String("component", "task_service")),
	}
}

// CreateTask validates and persists a new task owned by creatorID, then
// emits a taskCreated event. If the task is assigned to a user other than
// the creator, a taskAssigned event is emitted as well.
// Returns the task with creator/assignee projections expanded.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams, creatorID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(
		params.Title,
		params.Description,
		params.DueDate,
		params.Priority,
		creatorID,
		params.AssignedToID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	// Reload to expand the creator/assignee projections.
	created, err := s.taskStore.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	log.Info("task created",
		"task_id", created.ID,
		"creator_id", creatorID)

	s.emit(ctx, events.TypeTaskCreated, created)
	if created.AssignedToID != nil && *created.AssignedToID != creatorID {
		s.emit(ctx, events.TypeTaskAssigned, created)
	}

	return created, nil
}

// ListTasks retrieves tasks matching the filters, expanded like GetTask.
// No caller-based visibility restriction applies beyond authentication.
func (s *TaskService) ListTasks(ctx context.Context, params ListTasksParams, callerID uuid.UUID) ([]*domain.Task, error) {
	filter := store.TaskFilter{
		Status:        params.Status,
		Priority:      params.Priority,
		SortByDueDate: params.SortByDueDate,
	}

	switch params.Filter {
	case FilterAssigned:
		filter.AssignedToID = &callerID
	case FilterCreated:
		filter.CreatorID = &callerID
	}

	return s.taskStore.List(ctx, filter)
}

// GetTask retrieves a task by id with projections expanded.
// Returns store.ErrTaskNotFound if no task with that id exists.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id)
}

// UpdateTask applies the patch to the task and appends an audit entry
// recording the changed fields, the acting user and a timestamp. The
// mutation and the audit entry commit in one transaction. Any
// authenticated user may update any task; there is no ownership
// restriction on edits. Emits a taskUpdated event on success.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	patch UpdateTaskParams,
	actingUserID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := applyPatch(task, patch)

	entry, err := domain.NewAuditLogEntry(
		domain.AuditActionUpdate,
		id,
		actingUserID,
		fmt.Sprintf("Updated fields: %s", strings.Join(changed, ", ")),
	)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTaskTx(ctx, func(ctx context.Context, ts store.TaskStore) error {
		if err := ts.Update(ctx, task); err != nil {
			return err
		}
		return ts.AppendAuditEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("task updated",
		"task_id", id,
		"acting_user_id", actingUserID,
		"changed_fields", changed)

	s.emit(ctx, events.TypeTaskUpdated, updated)

	return updated, nil
}

// DeleteTask removes the task. Only the task's creator may delete it;
// any other caller gets ErrTaskNotOwned and the task remains persisted.
// Emits a taskDeleted event carrying the deleted id.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID, actingUserID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if task.CreatorID != actingUserID {
		return ErrTaskNotOwned
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("task deleted",
		"task_id", id,
		"acting_user_id", actingUserID)

	s.emit(ctx, events.TypeTaskDeleted, map[string]uuid.UUID{"id": id})

	return nil
}

// applyPatch copies the non-nil patch fields onto the task and returns
// the JSON names of the fields the patch carried, in a fixed order.
// A field present in the patch counts as changed even if the value is
// identical; repeating a patch yields the same task state and another
// audit entry.
func applyPatch(task *domain.Task, patch UpdateTaskParams) []string {
	var changed []string

	if patch.Title != nil {
		task.Title = *patch.Title
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
		changed = append(changed, "dueDate")
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
		changed = append(changed, "priority")
	}
	if patch.Status != nil {
		task.Status = *patch.Status
		changed = append(changed, "status")
	}
	if patch.AssignedToID != nil {
		task.AssignedToID = patch.AssignedToID
		changed = append(changed, "assignedToId")
	}

	return changed
}

// emit dispatches a lifecycle event. Delivery is best-effort: a failing
// handler never fails the request that produced the event.
func (s *TaskService) emit(ctx context.Context, eventType string, payload interface{}) {
	event, err := events.NewTaskEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build event",
			"event_type", eventType,
			"error", err)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit event",
			"event_type", eventType,
			"event_id", event.ID,
			"error", err)
	}
}
