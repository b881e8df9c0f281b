// Package priority tracks unsaved reorderings of a sibling task list and
// hands confirmed orders to a persistence collaborator.
package priority

import (
	"context"
	"slices"
	"sync"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// Response is whatever the persistence collaborator returned for a priority
// update. The detector forwards it without interpreting it.
type Response struct {
	ParentID   int
	OrderedIDs []int
	Updated    int
	Message    string
}

// Persister stores a new sibling order for parentID.
type Persister interface {
	UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (*Response, error)
}

// State is the reorder state of a Detector.
type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Option configures a Detector.
type Option func(*Detector)

// WithRetainOnFailure keeps the pending order when a save fails so that it
// can be retried. Without it the pending order is dropped regardless of the
// save outcome.
func WithRetainOnFailure() Option {
	return func(d *Detector) {
		d.retainOnFailure = true
	}
}

// Detector compares candidate sibling orders against a baseline captured from
// the caller's getter. A Detector belongs to one sibling list; independent
// lists use independent detectors.
type Detector struct {
	parentID  int
	getter    func() []domain.Task
	persister Persister

	retainOnFailure bool

	mu       sync.Mutex
	baseline []int
	pending  []int
}

// NewDetector captures the baseline order from getter. A nil getter yields an
// empty baseline.
func NewDetector(parentID int, getter func() []domain.Task, p Persister, opts ...Option) *Detector {
	d := &Detector{parentID: parentID, getter: getter, persister: p}
	for _, opt := range opts {
		opt(d)
	}
	d.baseline = d.readBaseline()
	return d
}

func (d *Detector) readBaseline() []int {
	if d.getter == nil {
		return []int{}
	}
	return domain.TaskIDs(d.getter())
}

// ParentID returns the parent whose children this detector orders.
func (d *Detector) ParentID() int {
	return d.parentID
}

// HandleItemsPriorityUpdate records candidate as pending when it holds the
// same number of items as the baseline in a different order. Any other
// candidate, including one of a different length, clears the pending order.
func (d *Detector) HandleItemsPriorityUpdate(candidate []domain.Task) {
	ids := domain.TaskIDs(candidate)

	d.mu.Lock()
	defer d.mu.Unlock()
	if changed, ok := DetectReorder(d.baseline, ids); ok {
		d.pending = changed
		return
	}
	d.pending = nil
}

// DiscardTaskPriority drops the pending order without persisting it.
func (d *Detector) DiscardTaskPriority() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

// SaveTaskPriority sends the pending order to the persister and returns its
// response and error unchanged. It is a no-op when nothing is pending.
func (d *Detector) SaveTaskPriority(ctx context.Context) (*Response, error) {
	d.mu.Lock()
	ids := slices.Clone(d.pending)
	if !d.retainOnFailure {
		d.pending = nil
	}
	d.mu.Unlock()

	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := d.persister.UpdatePriorities(ctx, d.parentID, ids)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		return resp, err
	}
	d.baseline = ids
	if slices.Equal(d.pending, ids) {
		d.pending = nil
	}
	return resp, nil
}

// ListHasRearranged reports whether an unsaved order is pending.
func (d *Detector) ListHasRearranged() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending) > 0
}

// State returns Dirty when an order is pending.
func (d *Detector) State() State {
	if d.ListHasRearranged() {
		return Dirty
	}
	return Clean
}

// Pending returns a copy of the pending order, or nil.
func (d *Detector) Pending() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.pending)
}

// Baseline returns a copy of the order candidates are compared against.
func (d *Detector) Baseline() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.baseline)
}

// Rebase re-reads the baseline from the getter and clears any pending order.
func (d *Detector) Rebase() {
	baseline := d.readBaseline()
	d.mu.Lock()
	d.baseline = baseline
	d.pending = nil
	d.mu.Unlock()
}

// DetectReorder reports whether candidate is a positional rearrangement of
// baseline. Sequences of different length are never a reorder. The returned
// slice is a copy of candidate.
func DetectReorder(baseline, candidate []int) ([]int, bool) {
	if len(baseline) != len(candidate) {
		return nil, false
	}
	if slices.Equal(baseline, candidate) {
		return nil, false
	}
	return slices.Clone(candidate), true
}
