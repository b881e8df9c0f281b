package priority

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	calls []persistCall
	err   error
}

type persistCall struct {
	parentID int
	ids      []int
}

func (p *recordingPersister) UpdatePriorities(_ context.Context, parentID int, ids []int) (*Response, error) {
	p.calls = append(p.calls, persistCall{parentID: parentID, ids: ids})
	if p.err != nil {
		return nil, p.err
	}
	return &Response{ParentID: parentID, OrderedIDs: ids, Updated: len(ids), Message: "ok"}, nil
}

func tasks(ids ...int) []domain.Task {
	out := make([]domain.Task, len(ids))
	for i, id := range ids {
		out[i] = domain.Task{ID: id, ParentID: 10}
	}
	return out
}

func getter(ids ...int) func() []domain.Task {
	return func() []domain.Task { return tasks(ids...) }
}

func TestDetector_InitialStateClean(t *testing.T) {
	d := NewDetector(10, getter(1, 2, 3), &recordingPersister{})
	assert.False(t, d.ListHasRearranged())
	assert.Equal(t, Clean, d.State())
	assert.Equal(t, []int{1, 2, 3}, d.Baseline())
	assert.Nil(t, d.Pending())
}

func TestDetector_IdenticalOrderIsNoop(t *testing.T) {
	d := NewDetector(10, getter(1, 2, 3), &recordingPersister{})
	d.HandleItemsPriorityUpdate(tasks(1, 2, 3))
	assert.False(t, d.ListHasRearranged())
}

func TestDetector_SwapMarksDirty(t *testing.T) {
	d := NewDetector(10, getter(1, 2, 3), &recordingPersister{})
	d.HandleItemsPriorityUpdate(tasks(2, 1, 3))

	assert.True(t, d.ListHasRearranged())
	assert.Equal(t, Dirty, d.State())
	assert.Equal(t, []int{2, 1, 3}, d.Pending())
}

func TestDetector_LengthMismatchIsNotReorder(t *testing.T) {
	d := NewDetector(10, getter(1, 2, 3), &recordingPersister{})
	d.HandleItemsPriorityUpdate(tasks(1, 2))
	assert.False(t, d.ListHasRearranged())

	d.HandleItemsPriorityUpdate(tasks(3, 2, 1))
	require.True(t, d.ListHasRearranged())
	d.HandleItemsPriorityUpdate(tasks(3, 2, 1, 4))
	assert.False(t, d.ListHasRearranged(), "length mismatch clears a previous pending order")
}

func TestDetector_RevertToBaselineClears(t *testing.T) {
	d := NewDetector(10, getter(1, 2, 3), &recordingPersister{})
	d.HandleItemsPriorityUpdate(tasks(3, 1, 2))
	require.True(t, d.ListHasRearranged())

	d.HandleItemsPriorityUpdate(tasks(1, 2, 3))
	assert.False(t, d.ListHasRearranged())
}

func TestDetector_Discard(t *testing.T) {
	p := &recordingPersister{}
	d := NewDetector(10, getter(1, 2), p)
	d.HandleItemsPriorityUpdate(tasks(2, 1))

	d.DiscardTaskPriority()

	assert.False(t, d.ListHasRearranged())
	assert.Empty(t, p.calls)
	assert.Equal(t, []int{1, 2}, d.Baseline())
}

func TestDetector_SaveForwardsAndCleans(t *testing.T) {
	p := &recordingPersister{}
	d := NewDetector(10, getter(1, 2, 3), p)
	d.HandleItemsPriorityUpdate(tasks(3, 2, 1))

	resp, err := d.SaveTaskPriority(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, 3, resp.Updated)

	require.Len(t, p.calls, 1)
	assert.Equal(t, 10, p.calls[0].parentID)
	assert.Equal(t, []int{3, 2, 1}, p.calls[0].ids)
	assert.False(t, d.ListHasRearranged())
	assert.Equal(t, []int{3, 2, 1}, d.Baseline(), "saved order becomes the new baseline")

	d.HandleItemsPriorityUpdate(tasks(3, 2, 1))
	assert.False(t, d.ListHasRearranged())
}

func TestDetector_SaveWhenCleanSkipsPersister(t *testing.T) {
	p := &recordingPersister{}
	d := NewDetector(10, getter(1, 2), p)

	resp, err := d.SaveTaskPriority(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, p.calls)
}

func TestDetector_SaveFailureClearsPendingByDefault(t *testing.T) {
	boom := errors.New("backend down")
	p := &recordingPersister{err: boom}
	d := NewDetector(10, getter(1, 2), p)
	d.HandleItemsPriorityUpdate(tasks(2, 1))

	_, err := d.SaveTaskPriority(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, d.ListHasRearranged())
	assert.Equal(t, []int{1, 2}, d.Baseline(), "baseline unchanged on failure")
}

func TestDetector_SaveFailureRetainsPendingWhenConfigured(t *testing.T) {
	boom := errors.New("backend down")
	p := &recordingPersister{err: boom}
	d := NewDetector(10, getter(1, 2), p, WithRetainOnFailure())
	d.HandleItemsPriorityUpdate(tasks(2, 1))

	_, err := d.SaveTaskPriority(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, d.ListHasRearranged())
	assert.Equal(t, []int{2, 1}, d.Pending())

	p.err = nil
	_, err = d.SaveTaskPriority(context.Background())
	require.NoError(t, err)
	assert.False(t, d.ListHasRearranged())
	assert.Len(t, p.calls, 2)
}

func TestDetector_Rebase(t *testing.T) {
	current := []int{1, 2, 3}
	d := NewDetector(10, func() []domain.Task { return tasks(current...) }, &recordingPersister{})
	d.HandleItemsPriorityUpdate(tasks(2, 1, 3))

	current = []int{4, 1, 2, 3}
	d.Rebase()

	assert.False(t, d.ListHasRearranged())
	assert.Equal(t, []int{4, 1, 2, 3}, d.Baseline())
}

func TestDetector_NilGetter(t *testing.T) {
	d := NewDetector(0, nil, &recordingPersister{})
	assert.Empty(t, d.Baseline())
	d.HandleItemsPriorityUpdate(nil)
	assert.False(t, d.ListHasRearranged())
}

func TestDetector_IndependentInstances(t *testing.T) {
	a := NewDetector(1, getter(1, 2), &recordingPersister{})
	b := NewDetector(2, getter(5, 6), &recordingPersister{})

	a.HandleItemsPriorityUpdate(tasks(2, 1))

	assert.True(t, a.ListHasRearranged())
	assert.False(t, b.ListHasRearranged())
}

func TestDetectReorder(t *testing.T) {
	tests := []struct {
		name      string
		baseline  []int
		candidate []int
		want      []int
		ok        bool
	}{
		{"identical", []int{1, 2, 3}, []int{1, 2, 3}, nil, false},
		{"swap", []int{1, 2, 3}, []int{2, 1, 3}, []int{2, 1, 3}, true},
		{"shorter", []int{1, 2, 3}, []int{1, 2}, nil, false},
		{"longer", []int{1, 2}, []int{1, 2, 3}, nil, false},
		{"empty", nil, []int{}, nil, false},
		{"rotation", []int{1, 2, 3, 4}, []int{4, 1, 2, 3}, []int{4, 1, 2, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectReorder(tt.baseline, tt.candidate)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectReorder_ReturnsCopy(t *testing.T) {
	candidate := []int{2, 1}
	got, ok := DetectReorder([]int{1, 2}, candidate)
	require.True(t, ok)
	candidate[0] = 99
	assert.Equal(t, []int{2, 1}, got)
}
