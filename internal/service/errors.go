package service

import "errors"

var (
	// ErrInvalidTask indicates a task failed validation before persistence.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidParent indicates a parent that does not exist or would
	// create a cycle.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrHasChildren is returned by a non-cascading delete of a parent task.
	ErrHasChildren = errors.New("task has children")

	// ErrNotAssigned indicates a report from a user not assigned to the task.
	ErrNotAssigned = errors.New("user is not assigned to task")

	// ErrInvalidSnapshot wraps snapshot validation failures.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
