package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// taskColumns selects a task row joined against the users table twice:
// once for the creator projection and once for the optional assignee.
const taskColumns = `
	t.id, t.title, t.description, t.due_date, t.priority, t.status,
	t.creator_id, t.assigned_to_id, t.created_at, t.updated_at,
	c.name, c.email,
	a.id, a.name, a.email
`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.creator_id
	LEFT JOIN users a ON a.id = t.assigned_to_id
`

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. It exclusively owns task and audit
// entry persistence.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should
// be initialized and managed by the caller.
func NewTaskStore(db store.DBTX) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, priority, status,
			creator_id, assigned_to_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.CreatorID,
		task.AssignedToID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			"task_id", task.ID,
			"error", err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := "SELECT" + taskColumns + taskJoins + "WHERE t.id = $1"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContext(ctx).Error("failed to get task",
			"task_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	var conditions []string
	var args []any

	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Status != nil {
		addCondition("t.status", *filter.Status)
	}
	if filter.Priority != nil {
		addCondition("t.priority", *filter.Priority)
	}
	if filter.CreatorID != nil {
		addCondition("t.creator_id", *filter.CreatorID)
	}
	if filter.AssignedToID != nil {
		addCondition("t.assigned_to_id", *filter.AssignedToID)
	}

	query := "SELECT" + taskColumns + taskJoins
	if len(conditions) > 0 {
		query += "WHERE " + strings.Join(conditions, " AND ")
	}
	if filter.SortByDueDate {
		query += " ORDER BY t.due_date ASC"
	} else {
		query += " ORDER BY t.created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", "error", err)
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", "error", err)
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// The creator reference is immutable and is never part of the SET clause.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, priority = $4,
			status = $5, assigned_to_id = $6, updated_at = $7
		WHERE id = $8
	`

	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.AssignedToID,
		now,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"error", err)
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = now
	return nil
}

// Delete implements store.TaskStore.Delete
// Audit entries referencing the task are left in place; the audit log is
// append-only and retention is an operational concern.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			"task_id", id,
			"error", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// AppendAuditEntry implements store.TaskStore.AppendAuditEntry
func (s *TaskStore) AppendAuditEntry(ctx context.Context, entry *domain.AuditLogEntry) error {
	log := logger.FromContext(ctx)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO audit_log (id, action, task_id, user_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Action,
		entry.TaskID,
		entry.UserID,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to append audit entry",
			"task_id", entry.TaskID,
			"error", err)
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		creatorName   string
		creatorEmail  string
		assigneeID    *uuid.UUID
		assigneeName  sql.NullString
		assigneeEmail sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.CreatorID,
		&task.AssignedToID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&creatorName,
		&creatorEmail,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
	)
	if err != nil {
		return nil, err
	}

	task.Creator = &domain.UserRef{
		ID:    task.CreatorID,
		Name:  creatorName,
		Email: creatorEmail,
	}

	if assigneeID != nil {
		task.AssignedTo = &domain.UserRef{
			ID:    *assigneeID,
			Name:  assigneeName.String,
			Email: assigneeEmail.String,
		}
	}

	return &task, nil
}
