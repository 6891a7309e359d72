package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// The default implementation keeps tasks and audit entries in memory and
// expands creator/assignee projections from the Refs map when populated.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn             func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	AppendAuditEntryFn func(ctx context.Context, entry *domain.AuditLogEntry) error

	// Tasks backs the default implementation, keyed by task id. Order is
	// the insertion order, mimicking the store's created_at DESC default
	// in reverse.
	Tasks map[uuid.UUID]*domain.Task

	// Refs provides user projections for expansion, keyed by user id.
	Refs map[uuid.UUID]domain.UserRef

	// AuditEntries records every appended entry in order.
	AuditEntries []*domain.AuditLogEntry

	order []uuid.UUID
	mu    sync.Mutex
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
		Refs:  make(map[uuid.UUID]domain.UserRef),
	}
}

// AddUserRef registers a user projection used to expand creator and
// assignee fields on reads.
func (m *MockTaskStore) AddUserRef(ref domain.UserRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refs[ref.ID] = ref
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *task
	m.Tasks[task.ID] = &copied
	m.order = append(m.order, task.ID)
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	return m.expand(task), nil
}

// List implements the TaskStore interface.
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, id := range m.order {
		task, exists := m.Tasks[id]
		if !exists {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.CreatorID != nil && task.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.AssignedToID != nil {
			if task.AssignedToID == nil || *task.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		out = append(out, m.expand(task))
	}

	if filter.SortByDueDate {
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[j].DueDate.Before(out[i].DueDate) {
					out[i], out[j] = out[j], out[i]
				}
			}
		}
	}

	return out, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface. Audit entries for the task
// are kept, matching the real store.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}

// AppendAuditEntry implements the TaskStore interface.
func (m *MockTaskStore) AppendAuditEntry(ctx context.Context, entry *domain.AuditLogEntry) error {
	if m.AppendAuditEntryFn != nil {
		return m.AppendAuditEntryFn(ctx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.AuditEntries = append(m.AuditEntries, entry)
	return nil
}

// WithTx implements the TaskStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// expand returns a copy of the task with creator/assignee projections
// populated from Refs. Callers must hold m.mu.
func (m *MockTaskStore) expand(task *domain.Task) *domain.Task {
	copied := *task
	if ref, ok := m.Refs[task.CreatorID]; ok {
		copied.Creator = &ref
	}
	if task.AssignedToID != nil {
		if ref, ok := m.Refs[*task.AssignedToID]; ok {
			copied.AssignedTo = &ref
		}
	}
	return &copied
}

// MockTaskTxManager implements service.TaskTxManager by running the
// function directly against the given store, with no real transaction.
type MockTaskTxManager struct {
	Store store.TaskStore

	// Err, when set, is returned without invoking the function.
	Err error
}

// WithTaskTx implements the service.TaskTxManager interface.
func (m *MockTaskTxManager) WithTaskTx(ctx context.Context, fn func(ctx context.Context, ts store.TaskStore) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, m.Store)
}
