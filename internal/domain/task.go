package domain

import "time"

// RootParentID is the parent sentinel for top-level tasks.
const RootParentID = 0

type Task struct {
	ID          int
	ParentID    int
	Title       string
	Description string
	Status      TaskStatus
	Priority    int // sibling position as last persisted
	Users       []TaskUser
	TaskReports []TaskReport
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the task sits directly under the root sentinel.
func (t Task) IsRoot() bool {
	return t.ParentID == RootParentID
}

// TaskUser is an assignee of a task together with its relative contribution weight.
type TaskUser struct {
	ID         int
	Name       string
	TaskWeight float64
}

// TaskReport is a progress entry; Progress is in percentage points contributed.
type TaskReport struct {
	ID        string
	TaskID    int
	UserID    int
	Progress  float64
	Note      string
	CreatedAt time.Time
}

// TaskIDs returns the ids of tasks in order.
func TaskIDs(tasks []Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
