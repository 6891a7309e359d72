package postgres

import (
	"context"
	"database/sql"

	"github.com/taskhive/taskhive/internal/store"
)

// TaskTxManager binds task store operations to database transactions.
// It satisfies the task service's TaskTxManager interface.
type TaskTxManager struct {
	db        *sql.DB
	taskStore *TaskStore
}

// NewTaskTxManager creates a TaskTxManager over the given database.
func NewTaskTxManager(db *sql.DB, taskStore *TaskStore) *TaskTxManager {
	return &TaskTxManager{db: db, taskStore: taskStore}
}

// WithTaskTx runs fn against a TaskStore bound to a fresh transaction,
// committing on success and rolling back on error.
func (m *TaskTxManager) WithTaskTx(
	ctx context.Context,
	fn func(ctx context.Context, ts store.TaskStore) error,
) error {
	return store.RunInTransaction(ctx, m.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, m.taskStore.WithTx(tx))
	})
}
