package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_AssignsIDAndAppendsToSiblings(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()

	parent := &domain.Task{Title: "Recruiting"}
	require.NoError(t, svc.Create(ctx, parent))
	assert.Equal(t, 1, parent.ID)
	assert.Equal(t, domain.StatusPending, parent.Status)

	a := &domain.Task{ParentID: parent.ID, Title: "Post job ad"}
	b := &domain.Task{ParentID: parent.ID, Title: "Screen CVs",
		Users: []domain.TaskUser{{ID: 3, Name: "chen", TaskWeight: 1}}}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	assert.Equal(t, 0, a.Priority)
	assert.Equal(t, 1, b.Priority)
	assert.Equal(t, []int{a.ID, b.ID}, f.childIDs(t, parent.ID))

	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "chen", got.Users[0].Name)

	assert.Len(t, f.observer.named("create-task"), 3)
}

func TestTaskService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()

	err := svc.Create(ctx, &domain.Task{Title: "  "})
	require.ErrorIs(t, err, ErrInvalidTask)

	err = svc.Create(ctx, &domain.Task{Title: "x", Status: "DONE"})
	require.ErrorIs(t, err, ErrInvalidTask)

	err = svc.Create(ctx, &domain.Task{Title: "x", ParentID: 42})
	require.ErrorIs(t, err, ErrInvalidParent)
	require.ErrorIs(t, err, repository.ErrNotFound)

	events := f.observer.named("create-task")
	require.Len(t, events, 3)
	assert.False(t, events[2].Success)
}

func TestTaskService_Update_MoveAppendsUnderNewParent(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()
	f.seed(t,
		testutil.NewTestTask(1, "HR"),
		testutil.NewTestTask(2, "Finance"),
		testutil.NewTestTask(3, "Payroll", testutil.WithParent(2), testutil.WithPriority(0)),
		testutil.NewTestTask(4, "Benefits", testutil.WithParent(1), testutil.WithPriority(0)),
	)

	moved, err := svc.GetByID(ctx, 4)
	require.NoError(t, err)
	moved.ParentID = 2
	moved.Title = "Benefits admin"
	require.NoError(t, svc.Update(ctx, moved))

	assert.Equal(t, []int{3, 4}, f.childIDs(t, 2))
	got, err := svc.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Benefits admin", got.Title)
	assert.Equal(t, 1, got.Priority)
}

func TestTaskService_Update_RejectsCycles(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()
	f.seed(t,
		testutil.NewTestTask(1, "HR"),
		testutil.NewTestTask(2, "Hiring", testutil.WithParent(1)),
		testutil.NewTestTask(3, "Screening", testutil.WithParent(2)),
	)

	root, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)

	root.ParentID = 3
	require.ErrorIs(t, svc.Update(ctx, root), ErrInvalidParent)

	root.ParentID = 1
	require.ErrorIs(t, svc.Update(ctx, root), ErrInvalidParent)

	got, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RootParentID, got.ParentID)
}

func TestTaskService_SetStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()
	f.seed(t, testutil.NewTestTask(1, "HR"))

	require.NoError(t, svc.SetStatus(ctx, 1, domain.StatusCompleted))
	got, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	require.ErrorIs(t, svc.SetStatus(ctx, 1, "FINISHED"), ErrInvalidTask)
	require.ErrorIs(t, svc.SetStatus(ctx, 9, domain.StatusBlocked), repository.ErrNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()
	f.seed(t,
		testutil.NewTestTask(1, "HR"),
		testutil.NewTestTask(2, "Hiring", testutil.WithParent(1)),
		testutil.NewTestTask(3, "Screening", testutil.WithParent(2)),
	)

	_, err := svc.Delete(ctx, 1, false)
	require.ErrorIs(t, err, ErrHasChildren)

	n, err := svc.Delete(ctx, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Delete(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	events := f.observer.named("delete-task")
	require.Len(t, events, 3)
	assert.Equal(t, 2, events[2].Fields["deleted"])
}

func TestTaskService_AssignAndReport(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService()
	ctx := context.Background()
	f.seed(t, testutil.NewTestTask(1, "Payroll"))

	require.ErrorIs(t, svc.Assign(ctx, 2, domain.TaskUser{ID: 5, TaskWeight: 1}), repository.ErrNotFound)
	require.ErrorIs(t, svc.Assign(ctx, 1, domain.TaskUser{ID: 0, TaskWeight: 1}), ErrInvalidTask)
	require.NoError(t, svc.Assign(ctx, 1, domain.TaskUser{ID: 5, Name: "fatima", TaskWeight: 1}))

	err := svc.AddReport(ctx, &domain.TaskReport{TaskID: 1, UserID: 6, Progress: 10})
	require.ErrorIs(t, err, ErrNotAssigned)

	err = svc.AddReport(ctx, &domain.TaskReport{TaskID: 1, UserID: 5, Progress: 120})
	require.ErrorIs(t, err, ErrInvalidTask)

	rep := &domain.TaskReport{TaskID: 1, UserID: 5, Progress: 35, Note: "first run"}
	require.NoError(t, svc.AddReport(ctx, rep))
	assert.NotEmpty(t, rep.ID)
	assert.False(t, rep.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.TaskReports, 1)
	assert.Equal(t, "first run", got.TaskReports[0].Note)

	require.NoError(t, svc.Unassign(ctx, 1, 5))
	err = svc.Unassign(ctx, 1, 5)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestTaskService_Create_RollsBackOnAssignFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")
	// Exec calls inside Create: insert task (1), assign user (2).
	uow := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: boom}
	svc := NewTaskService(f.tasks, f.assignees, uow)

	err := svc.Create(context.Background(), &domain.Task{
		Title: "Payroll",
		Users: []domain.TaskUser{{ID: 1, TaskWeight: 1}},
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), uow.Calls.Load())

	all, err := f.tasks.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
