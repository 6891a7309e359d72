package service

import "errors"

// Task service errors
var (
	// ErrTaskNotOwned is returned when a user attempts an operation
	// reserved for the task's creator, such as deletion.
	ErrTaskNotOwned = errors.New("task does not belong to the user")
)
