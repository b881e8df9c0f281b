package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssigneeRepo_AssignUpsertsAndUnassigns(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	r.seed(t, testutil.NewTestTask(1, "Payroll"))

	require.NoError(t, r.assignees.Assign(ctx, 1, domain.TaskUser{ID: 5, Name: "ana", TaskWeight: 1}))
	require.NoError(t, r.assignees.Assign(ctx, 1, domain.TaskUser{ID: 3, Name: "bo", TaskWeight: 2}))
	require.NoError(t, r.assignees.Assign(ctx, 1, domain.TaskUser{ID: 5, Name: "ana k.", TaskWeight: 4}))

	users, err := r.assignees.ListByTask(ctx, 1)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 3, users[0].ID)
	assert.Equal(t, "ana k.", users[1].Name)
	assert.InDelta(t, 4.0, users[1].TaskWeight, 1e-9)

	require.NoError(t, r.assignees.Unassign(ctx, 1, 3))
	require.ErrorIs(t, r.assignees.Unassign(ctx, 1, 3), ErrNotFound)

	users, err = r.assignees.ListByTask(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAssigneeRepo_RejectsNegativeWeight(t *testing.T) {
	r := setupRepos(t)
	r.seed(t, testutil.NewTestTask(1, "Payroll"))

	err := r.assignees.Assign(context.Background(), 1, domain.TaskUser{ID: 5, TaskWeight: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestAssigneeRepo_UnknownTask(t *testing.T) {
	r := setupRepos(t)
	err := r.assignees.Assign(context.Background(), 42, domain.TaskUser{ID: 5, TaskWeight: 1})
	require.Error(t, err, "foreign key to tasks is enforced")
}
