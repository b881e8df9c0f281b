package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type localProvider struct {
	tasks repository.TaskRepo
}

// NewLocalProvider serves task lists from the SQLite store.
func NewLocalProvider(tasks repository.TaskRepo) TaskListProvider {
	return &localProvider{tasks: tasks}
}

func (p *localProvider) ListTasks(ctx context.Context, scope int) ([]domain.Task, error) {
	return p.tasks.ListSubtree(ctx, scope)
}

type localPersister struct {
	uow db.UnitOfWork
}

// NewLocalPersister writes sibling orders to the SQLite store. The whole
// order is applied in one transaction, so an id that is not a child of the
// parent leaves the stored order untouched.
func NewLocalPersister(uow db.UnitOfWork) priority.Persister {
	return &localPersister{uow: uow}
}

func (p *localPersister) UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (*priority.Response, error) {
	var updated int
	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteTaskRepo(tx).UpdatePriorities(ctx, parentID, orderedIDs)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &priority.Response{
		ParentID:   parentID,
		OrderedIDs: append([]int(nil), orderedIDs...),
		Updated:    updated,
		Message:    fmt.Sprintf("updated %d priorities under %d", updated, parentID),
	}, nil
}

// observedPersister reports each save as a use case.
type observedPersister struct {
	next     priority.Persister
	observer UseCaseObserver
}

func (p *observedPersister) UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (resp *priority.Response, err error) {
	defer observe(ctx, p.observer, "save-priorities", time.Now(), map[string]any{
		"parent_id": parentID,
		"count":     len(orderedIDs),
	}, &err)
	return p.next.UpdatePriorities(ctx, parentID, orderedIDs)
}
