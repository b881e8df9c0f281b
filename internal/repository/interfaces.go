package repository

import (
	"context"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// TaskRepo stores tasks. List methods return tasks with Users and TaskReports
// populated, ordered by parent then priority so that filtering by parent
// yields sibling order.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int) (*domain.Task, error)
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListChildren(ctx context.Context, parentID int) ([]domain.Task, error)
	ListSubtree(ctx context.Context, rootID int) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int) error
	DeleteSubtree(ctx context.Context, rootID int) (int, error)
	UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (int, error)
	NextPriority(ctx context.Context, parentID int) (int, error)
	NextID(ctx context.Context) (int, error)
}

type AssigneeRepo interface {
	Assign(ctx context.Context, taskID int, u domain.TaskUser) error
	Unassign(ctx context.Context, taskID, userID int) error
	ListByTask(ctx context.Context, taskID int) ([]domain.TaskUser, error)
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.TaskReport) error
	ListByTask(ctx context.Context, taskID int) ([]domain.TaskReport, error)
	Delete(ctx context.Context, id string) error
}
