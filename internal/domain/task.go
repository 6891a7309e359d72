package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task validation errors. All wrap ErrValidation so the API layer can
// map any of them to a 400 with a single errors.Is check.
var (
	ErrTaskIDEmpty          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrTaskCreatorEmpty     = fmt.Errorf("%w: task creator ID cannot be empty", ErrValidation)
	ErrTaskTitleEmpty       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong     = fmt.Errorf("%w: task title cannot exceed 100 characters", ErrValidation)
	ErrTaskDescriptionEmpty = fmt.Errorf("%w: task description cannot be empty", ErrValidation)
	ErrTaskDueDateEmpty     = fmt.Errorf("%w: task due date cannot be empty", ErrValidation)
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Valid reports whether the priority is one of the allowed values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is the closed set of task statuses.
type Status string

const (
	StatusToDo       Status = "ToDo"
	StatusInProgress Status = "InProgress"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether the status is one of the allowed values.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work tracked by the application.
// CreatorID is immutable once set; any authenticated user may edit the
// task, but only its creator may delete it.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      time.Time  `json:"dueDate"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	CreatorID    uuid.UUID  `json:"creatorId"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Creator and AssignedTo are expanded user projections populated by
	// the store on reads. They are not persisted on the task row itself.
	Creator    *UserRef `json:"creator,omitempty"`
	AssignedTo *UserRef `json:"assignedTo,omitempty"`
}

// NewTask creates a new Task owned by creatorID.
// New tasks start in status ToDo. Returns an error if validation fails.
func NewTask(
	title, description string,
	dueDate time.Time,
	priority Priority,
	creatorID uuid.UUID,
	assignedToID *uuid.UUID,
) (*Task, error) {
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       StatusToDo,
		CreatorID:    creatorID,
		AssignedToID: assignedToID,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.CreatorID == uuid.Nil {
		return ErrTaskCreatorEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if len(t.Title) > 100 {
		return ErrTaskTitleTooLong
	}

	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	if t.DueDate.IsZero() {
		return ErrTaskDueDateEmpty
	}

	if !t.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	return nil
}

// Enum errors, separated from field errors because API handlers map
// them to dedicated messages.
var (
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: invalid task status", ErrValidation)
)
