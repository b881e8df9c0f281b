package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/progress"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/tasktree"
)

type hierarchyService struct {
	provider  TaskListProvider
	persister priority.Persister
	opts      []priority.Option
	observer  UseCaseObserver
}

// NewHierarchyService builds tree, progress and reorder views over provider.
// Reorder sessions save through persister with the given detector options.
func NewHierarchyService(
	provider TaskListProvider,
	persister priority.Persister,
	opts []priority.Option,
	observers ...UseCaseObserver,
) HierarchyService {
	observer := useCaseObserverOrNoop(observers)
	return &hierarchyService{
		provider:  provider,
		persister: &observedPersister{next: persister, observer: observer},
		opts:      opts,
		observer:  observer,
	}
}

func (s *hierarchyService) Tree(ctx context.Context, scope int) (roots []*domain.TreeNode, err error) {
	fields := map[string]any{"scope": scope}
	defer observe(ctx, s.observer, "build-tree", time.Now(), fields, &err)

	tasks, err := s.provider.ListTasks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	fields["tasks"] = len(tasks)
	return tasktree.NewTreeContext(tasks, scope).Tree(), nil
}

func (s *hierarchyService) Flatten(ctx context.Context, scope int) ([]domain.FlatTask, error) {
	roots, err := s.Tree(ctx, scope)
	if err != nil {
		return nil, err
	}
	return tasktree.Flatten(roots), nil
}

// Progress reports weighted per-user progress for id and the completion of
// its subtree. The node is built from the task's own children even when the
// task is unreachable from the root.
func (s *hierarchyService) Progress(ctx context.Context, id int) (result *TaskProgress, err error) {
	defer observe(ctx, s.observer, "task-progress", time.Now(), map[string]any{"task_id": id}, &err)

	node, err := s.node(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskProgress{
		Task:             node.Task,
		Users:            progress.WeightedUserProgress(node.Users, node.TaskReports),
		Completion:       progress.TaskCompletion(node.Task),
		SubtreeCompleted: progress.SubtreeCompletionRatio(node),
		FullyComplete:    progress.IsFullyComplete(node),
		ChildCount:       len(node.Children),
	}, nil
}

func (s *hierarchyService) Completion(ctx context.Context, id int) (int, error) {
	node, err := s.node(ctx, id)
	if err != nil {
		return 0, err
	}
	return progress.SubtreeCompletionRatio(node), nil
}

func (s *hierarchyService) node(ctx context.Context, id int) (*domain.TreeNode, error) {
	tasks, err := s.provider.ListTasks(ctx, domain.RootParentID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	for _, t := range tasks {
		if t.ID == id {
			return &domain.TreeNode{Task: t, Children: tasktree.BuildTree(tasks, id)}, nil
		}
	}
	return nil, fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
}

func (s *hierarchyService) Orphans(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.provider.ListTasks(ctx, domain.RootParentID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return tasktree.Orphans(tasks, domain.RootParentID), nil
}

func (s *hierarchyService) Cycles(ctx context.Context) ([][]int, error) {
	tasks, err := s.provider.ListTasks(ctx, domain.RootParentID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return tasktree.FindCycles(tasks), nil
}

// NewReorderSession captures the current children of parentID as the
// baseline of a new detector.
func (s *hierarchyService) NewReorderSession(ctx context.Context, parentID int) (session *ReorderSession, err error) {
	fields := map[string]any{"parent_id": parentID}
	defer observe(ctx, s.observer, "reorder-session", time.Now(), fields, &err)

	tasks, err := s.provider.ListTasks(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	siblings := tasktree.Siblings(tasks, parentID)
	fields["siblings"] = len(siblings)

	getter := func() []domain.Task { return siblings }
	return &ReorderSession{
		Detector: priority.NewDetector(parentID, getter, s.persister, s.opts...),
		Siblings: siblings,
	}, nil
}
