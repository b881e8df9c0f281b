package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	db        *sql.DB
	uow       db.UnitOfWork
	tasks     *repository.SQLiteTaskRepo
	assignees *repository.SQLiteAssigneeRepo
	reports   *repository.SQLiteReportRepo
	observer  *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		assignees: repository.NewSQLiteAssigneeRepo(database),
		reports:   repository.NewSQLiteReportRepo(database),
		observer:  &recordingObserver{},
	}
}

func (f *fixture) taskService() TaskService {
	return NewTaskService(f.tasks, f.assignees, f.uow, f.observer)
}

func (f *fixture) hierarchy(opts ...priority.Option) HierarchyService {
	return NewHierarchyService(NewLocalProvider(f.tasks), NewLocalPersister(f.uow), opts, f.observer)
}

// seed stores tasks directly through the repositories, bypassing service
// validation so tests can build dirty hierarchies.
func (f *fixture) seed(t *testing.T, tasks ...*domain.Task) {
	t.Helper()
	ctx := context.Background()
	for _, task := range tasks {
		require.NoError(t, f.tasks.Create(ctx, task))
		for _, u := range task.Users {
			require.NoError(t, f.assignees.Assign(ctx, task.ID, u))
		}
		for i := range task.TaskReports {
			require.NoError(t, f.reports.Create(ctx, &task.TaskReports[i]))
		}
	}
}

func (f *fixture) childIDs(t *testing.T, parentID int) []int {
	t.Helper()
	children, err := f.tasks.ListChildren(context.Background(), parentID)
	require.NoError(t, err)
	return domain.TaskIDs(children)
}
