package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type taskService struct {
	tasks     repository.TaskRepo
	assignees repository.AssigneeRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	assignees repository.AssigneeRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:     tasks,
		assignees: assignees,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Create stores t as the last child of its parent. A zero ID is replaced by
// the next free id; any Users on t are assigned in the same transaction.
func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "create-task", time.Now(), map[string]any{"parent_id": t.ParentID}, &err)

	if err := validateTask(t); err != nil {
		return err
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAssignees := repository.NewSQLiteAssigneeRepo(tx)

		if err := requireParent(ctx, txTasks, t.ParentID); err != nil {
			return err
		}
		if t.ID == 0 {
			id, err := txTasks.NextID(ctx)
			if err != nil {
				return err
			}
			t.ID = id
		}
		prio, err := txTasks.NextPriority(ctx, t.ParentID)
		if err != nil {
			return err
		}
		t.Priority = prio

		if err := txTasks.Create(ctx, t); err != nil {
			return err
		}
		for _, u := range t.Users {
			if err := txAssignees.Assign(ctx, t.ID, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *taskService) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Update saves the editable fields of t. Moving a task to a new parent puts
// it last among the new siblings; a parent inside the task's own subtree is
// rejected.
func (s *taskService) Update(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "update-task", time.Now(), map[string]any{"task_id": t.ID}, &err)

	if err := validateTask(t); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		current, err := txTasks.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if t.ParentID != current.ParentID {
			if err := s.checkMove(ctx, txTasks, t.ID, t.ParentID); err != nil {
				return err
			}
			prio, err := txTasks.NextPriority(ctx, t.ParentID)
			if err != nil {
				return err
			}
			t.Priority = prio
		} else {
			t.Priority = current.Priority
		}
		t.CreatedAt = current.CreatedAt
		t.UpdatedAt = time.Now().UTC()
		return txTasks.Update(ctx, t)
	})
}

func (s *taskService) checkMove(ctx context.Context, tasks repository.TaskRepo, id, newParent int) error {
	if newParent == id {
		return fmt.Errorf("%w: task %d cannot be its own parent", ErrInvalidParent, id)
	}
	if err := requireParent(ctx, tasks, newParent); err != nil {
		return err
	}
	descendants, err := tasks.ListSubtree(ctx, id)
	if err != nil {
		return err
	}
	if slices.Contains(domain.TaskIDs(descendants), newParent) {
		return fmt.Errorf("%w: task %d is a descendant of %d", ErrInvalidParent, newParent, id)
	}
	return nil
}

func (s *taskService) SetStatus(ctx context.Context, id int, status domain.TaskStatus) (err error) {
	defer observe(ctx, s.observer, "set-status", time.Now(), map[string]any{
		"task_id": id,
		"status":  string(status),
	}, &err)

	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, status)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t.Status = status
		t.UpdatedAt = time.Now().UTC()
		return txTasks.Update(ctx, t)
	})
}

// Delete removes a task and returns how many tasks were deleted. Without
// cascade a task that still has children is refused.
func (s *taskService) Delete(ctx context.Context, id int, cascade bool) (deleted int, err error) {
	fields := map[string]any{"task_id": id, "cascade": cascade}
	defer observe(ctx, s.observer, "delete-task", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if cascade {
			n, err := txTasks.DeleteSubtree(ctx, id)
			deleted = n
			return err
		}
		children, err := txTasks.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return fmt.Errorf("%w: task %d has %d children", ErrHasChildren, id, len(children))
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		deleted = 1
		return nil
	})
	fields["deleted"] = deleted
	return deleted, err
}

func (s *taskService) Assign(ctx context.Context, taskID int, u domain.TaskUser) (err error) {
	defer observe(ctx, s.observer, "assign-user", time.Now(), map[string]any{
		"task_id": taskID,
		"user_id": u.ID,
	}, &err)

	if u.ID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidTask)
	}
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return err
	}
	return s.assignees.Assign(ctx, taskID, u)
}

func (s *taskService) Unassign(ctx context.Context, taskID, userID int) (err error) {
	defer observe(ctx, s.observer, "unassign-user", time.Now(), map[string]any{
		"task_id": taskID,
		"user_id": userID,
	}, &err)
	return s.assignees.Unassign(ctx, taskID, userID)
}

// AddReport records progress by an assignee of the task. Progress is in
// percentage points and must be within 0..100.
func (s *taskService) AddReport(ctx context.Context, r *domain.TaskReport) (err error) {
	defer observe(ctx, s.observer, "add-report", time.Now(), map[string]any{
		"task_id": r.TaskID,
		"user_id": r.UserID,
	}, &err)

	if math.IsNaN(r.Progress) || r.Progress < 0 || r.Progress > 100 {
		return fmt.Errorf("%w: progress %v must be within 0..100", ErrInvalidTask, r.Progress)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users, err := repository.NewSQLiteAssigneeRepo(tx).ListByTask(ctx, r.TaskID)
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(users, func(u domain.TaskUser) bool { return u.ID == r.UserID }) {
			return fmt.Errorf("%w: user %d on task %d", ErrNotAssigned, r.UserID, r.TaskID)
		}
		return repository.NewSQLiteReportRepo(tx).Create(ctx, r)
	})
}

func validateTask(t *domain.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if t.ID < 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidTask, t.ID)
	}
	if t.Status == "" {
		t.Status = domain.StatusPending
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, t.Status)
	}
	for _, u := range t.Users {
		if u.TaskWeight < 0 {
			return fmt.Errorf("%w: user %d has negative task weight", ErrInvalidTask, u.ID)
		}
	}
	return nil
}

func requireParent(ctx context.Context, tasks repository.TaskRepo, parentID int) error {
	if parentID == domain.RootParentID {
		return nil
	}
	if _, err := tasks.GetByID(ctx, parentID); err != nil {
		return fmt.Errorf("%w: parent %d: %w", ErrInvalidParent, parentID, err)
	}
	return nil
}
