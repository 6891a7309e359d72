package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Audit entry validation errors
var (
	ErrAuditTaskIDEmpty  = errors.New("audit entry task ID cannot be empty")
	ErrAuditUserIDEmpty  = errors.New("audit entry user ID cannot be empty")
	ErrAuditDetailsEmpty = errors.New("audit entry details cannot be empty")
)

// AuditAction identifies the kind of task mutation an audit entry records.
type AuditAction string

// AuditActionUpdate is recorded once per successful task update.
const AuditActionUpdate AuditAction = "UPDATE"

// AuditLogEntry is an immutable record of a task mutation: who changed
// what, on which task, and when. Entries are append-only; the core never
// mutates or deletes them. Deleting a task leaves its entries in place.
type AuditLogEntry struct {
	ID        uuid.UUID   `json:"id"`
	Action    AuditAction `json:"action"`
	TaskID    uuid.UUID   `json:"taskId"`
	UserID    uuid.UUID   `json:"userId"`
	Details   string      `json:"details"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewAuditLogEntry creates an audit entry for a mutation of taskID
// performed by userID. Details is a free-text description of the changed
// fields. Returns an error if validation fails.
func NewAuditLogEntry(action AuditAction, taskID, userID uuid.UUID, details string) (*AuditLogEntry, error) {
	entry := &AuditLogEntry{
		ID:        uuid.New(),
		Action:    action,
		TaskID:    taskID,
		UserID:    userID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the AuditLogEntry has valid data.
func (e *AuditLogEntry) Validate() error {
	if e.TaskID == uuid.Nil {
		return ErrAuditTaskIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrAuditUserIDEmpty
	}

	if e.Details == "" {
		return ErrAuditDetailsEmpty
	}

	return nil
}
