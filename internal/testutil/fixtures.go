package testutil

import (
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/google/uuid"
)

// TaskOption customises a fixture task.
type TaskOption func(*domain.Task)

func WithParent(id int) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = id
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p int) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDescription(d string) TaskOption {
	return func(t *domain.Task) {
		t.Description = d
	}
}

// WithUser appends an assignee with the given weight.
func WithUser(id int, weight float64) TaskOption {
	return func(t *domain.Task) {
		t.Users = append(t.Users, domain.TaskUser{ID: id, Name: userName(id), TaskWeight: weight})
	}
}

// WithReport appends a progress report by userID.
func WithReport(userID int, progress float64) TaskOption {
	return func(t *domain.Task) {
		t.TaskReports = append(t.TaskReports, NewTestReport(t.ID, userID, progress))
	}
}

func NewTestTask(id int, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:        id,
		ParentID:  domain.RootParentID,
		Title:     title,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestReport(taskID, userID int, progress float64) domain.TaskReport {
	return domain.TaskReport{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Progress:  progress,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func userName(id int) string {
	names := []string{"ana", "bo", "chen", "dara", "eli", "fatima", "gus"}
	return names[id%len(names)]
}
