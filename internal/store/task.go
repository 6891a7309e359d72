package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields are not applied.
type TaskFilter struct {
	// Status restricts results to tasks with this status.
	Status *domain.Status

	// Priority restricts results to tasks with this priority.
	Priority *domain.Priority

	// CreatorID restricts results to tasks created by this user.
	CreatorID *uuid.UUID

	// AssignedToID restricts results to tasks assigned to this user.
	AssignedToID *uuid.UUID

	// SortByDueDate orders results by due date ascending instead of the
	// default creation time descending.
	SortByDueDate bool
}

// TaskStore defines the interface for task and audit-entry persistence.
// The task store exclusively owns Task and AuditLogEntry records.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID with the creator and
	// assignee projections expanded.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves all tasks matching the filter, expanded like GetByID.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the mutable fields of an existing task. The creator
	// reference is immutable and never written by Update.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Audit entries for
	// the task are deliberately left in place.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendAuditEntry records an immutable audit entry.
	AppendAuditEntry(ctx context.Context, entry *domain.AuditLogEntry) error

	// WithTx returns a TaskStore bound to the given transaction, so a
	// task mutation and its audit entry can commit atomically.
	WithTx(tx *sql.Tx) TaskStore
}
