package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusBlocked    TaskStatus = "BLOCKED"
	StatusCancelled  TaskStatus = "CANCELLED"
	StatusBackLog    TaskStatus = "BACK_LOG"
)

// ValidTaskStatuses is the canonical set of accepted status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusBlocked:    true,
	StatusCancelled:  true,
	StatusBackLog:    true,
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return ValidTaskStatuses[s]
}

// ParseTaskStatus accepts a status in any case, with '-' or ' ' as word
// separators ("in progress", "back-log").
func ParseTaskStatus(v string) (TaskStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	s := TaskStatus(norm)
	if !s.Valid() {
		return "", fmt.Errorf("invalid task status %q (expected one of %s)", v, strings.Join(StatusNames(), "|"))
	}
	return s, nil
}

// StatusNames returns the status strings in lifecycle order.
func StatusNames() []string {
	return []string{
		string(StatusPending),
		string(StatusInProgress),
		string(StatusCompleted),
		string(StatusBlocked),
		string(StatusCancelled),
		string(StatusBackLog),
	}
}
