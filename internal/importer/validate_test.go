package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validSnapshot() *Snapshot {
	return &Snapshot{Tasks: []TaskImport{
		{ID: 1, Title: "Onboarding", Status: "IN_PROGRESS",
			Users: []UserImport{{ID: 7, TaskWeight: ptrFloat(2)}, {ID: 8}}},
		{ID: 2, ParentID: ptrInt(1), Title: "Laptop"},
		{ID: 3, ParentID: ptrInt(1), Title: "Badge", Status: "completed",
			TaskReports: []ReportImport{{UserID: 7, Progress: 40, CreatedAt: "2026-03-01T09:00:00Z"}}},
	}}
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

func TestValidateSnapshot_Valid(t *testing.T) {
	assert.Empty(t, ValidateSnapshot(validSnapshot()))
}

func TestValidateSnapshot_Empty(t *testing.T) {
	errs := ValidateSnapshot(&Snapshot{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no tasks")
}

func TestValidateSnapshot_IDs(t *testing.T) {
	snap := validSnapshot()
	snap.Tasks = append(snap.Tasks,
		TaskImport{ID: 0, Title: "zero"},
		TaskImport{ID: 2, Title: "dup"},
	)

	msgs := errorStrings(ValidateSnapshot(snap))
	assert.Contains(t, msgs, "tasks[3].id must be positive, got 0")
	assert.Contains(t, msgs, "tasks[4].id: duplicate id 2")
}

func TestValidateSnapshot_FieldErrorsAreSeparate(t *testing.T) {
	snap := &Snapshot{Tasks: []TaskImport{{
		ID:       1,
		Status:   "ARCHIVED",
		Priority: ptrInt(-1),
		Users: []UserImport{
			{ID: 4, TaskWeight: ptrFloat(-0.5)},
			{ID: 4},
		},
		TaskReports: []ReportImport{{UserID: 0, CreatedAt: "yesterday"}},
	}}}

	errs := ValidateSnapshot(snap)
	msgs := errorStrings(errs)
	assert.Len(t, errs, 7)
	assert.Contains(t, msgs, "tasks[0].title is required")
	assert.Contains(t, msgs, "tasks[0].priority must be non-negative")
	assert.Contains(t, msgs, "tasks[0].users[0].task_weight must be non-negative")
	assert.Contains(t, msgs, "tasks[0].users[1].id: duplicate user 4")
	assert.Contains(t, msgs, "tasks[0].task_reports[0].user_id must be positive")
	assert.Contains(t, msgs, `tasks[0].task_reports[0].created_at: invalid timestamp "yesterday" (expected RFC 3339)`)
}

func TestValidateSnapshot_MissingParent(t *testing.T) {
	snap := validSnapshot()
	snap.Tasks[1].ParentID = ptrInt(99)

	msgs := errorStrings(ValidateSnapshot(snap))
	assert.Equal(t, []string{"tasks[1].parent_id: task 99 not found in snapshot"}, msgs)
}

func TestValidateSnapshot_Cycle(t *testing.T) {
	snap := validSnapshot()
	snap.Tasks = append(snap.Tasks,
		TaskImport{ID: 10, ParentID: ptrInt(11), Title: "a"},
		TaskImport{ID: 11, ParentID: ptrInt(10), Title: "b"},
	)

	errs := ValidateSnapshot(snap)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrCycle))
	assert.Equal(t, "parent cycle: 10 -> 11 -> 10", errs[0].Error())
}
