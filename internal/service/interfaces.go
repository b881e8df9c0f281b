package service

import (
	"context"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/importer"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/progress"
)

// TaskListProvider supplies the flat task list the hierarchy is built from.
// Scope 0 is every task; any other scope is the subtree below that task,
// excluding the task itself. Siblings must come back in priority order.
type TaskListProvider interface {
	ListTasks(ctx context.Context, scope int) ([]domain.Task, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	SetStatus(ctx context.Context, id int, status domain.TaskStatus) error
	Delete(ctx context.Context, id int, cascade bool) (int, error)
	Assign(ctx context.Context, taskID int, u domain.TaskUser) error
	Unassign(ctx context.Context, taskID, userID int) error
	AddReport(ctx context.Context, r *domain.TaskReport) error
}

// TaskProgress is the progress breakdown for one task.
type TaskProgress struct {
	Task       domain.Task
	Users      []progress.UserProgress
	Completion int // weighted percentage, 0..100
	// SubtreeCompleted is progress.SubtreeCompletionRatio for the task's node.
	SubtreeCompleted int
	FullyComplete    bool
	ChildCount       int
}

// ReorderSession is a detector bound to one sibling list, together with the
// siblings it was captured from.
type ReorderSession struct {
	*priority.Detector
	Siblings []domain.Task
}

type HierarchyService interface {
	Tree(ctx context.Context, scope int) ([]*domain.TreeNode, error)
	Flatten(ctx context.Context, scope int) ([]domain.FlatTask, error)
	Progress(ctx context.Context, id int) (*TaskProgress, error)
	Completion(ctx context.Context, id int) (int, error)
	Orphans(ctx context.Context) ([]domain.Task, error)
	Cycles(ctx context.Context) ([][]int, error)
	NewReorderSession(ctx context.Context, parentID int) (*ReorderSession, error)
}

// ImportResult holds the outcome of a snapshot import.
type ImportResult struct {
	TaskCount     int
	AssigneeCount int
	ReportCount   int
	Replaced      int
}

type ImportService interface {
	ImportSnapshot(ctx context.Context, path string, replace bool) (*ImportResult, error)
	ImportFromSnapshot(ctx context.Context, snap *importer.Snapshot, replace bool) (*ImportResult, error)
}
