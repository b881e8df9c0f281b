package progress

import (
	"testing"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/stretchr/testify/assert"
)

func leaf(id int, status domain.TaskStatus) *domain.TreeNode {
	return &domain.TreeNode{Task: domain.Task{ID: id, Status: status}}
}

func parent(id int, children ...*domain.TreeNode) *domain.TreeNode {
	return &domain.TreeNode{Task: domain.Task{ID: id, Status: domain.StatusPending}, Children: children}
}

func TestSubtreeCompletionRatio_Leaf(t *testing.T) {
	assert.Equal(t, 1, SubtreeCompletionRatio(leaf(1, domain.StatusCompleted)))
	assert.Equal(t, 0, SubtreeCompletionRatio(leaf(1, domain.StatusInProgress)))
	assert.Equal(t, 0, SubtreeCompletionRatio(leaf(1, domain.StatusCancelled)))
	assert.Equal(t, 0, SubtreeCompletionRatio(nil))
}

// Internal nodes report a count of fully complete children rather than a
// ratio. The asymmetry is kept as-is until product clarifies the intent.
func TestSubtreeCompletionRatio_InternalNodeCountsChildren_KnownAmbiguous(t *testing.T) {
	root := parent(1,
		leaf(2, domain.StatusCompleted),
		leaf(3, domain.StatusCompleted),
		leaf(4, domain.StatusPending),
		parent(5, leaf(6, domain.StatusCompleted), leaf(7, domain.StatusCompleted)),
		parent(8, leaf(9, domain.StatusCompleted), leaf(10, domain.StatusBlocked)),
	)

	assert.Equal(t, 3, SubtreeCompletionRatio(root))
}

func TestIsFullyComplete_IgnoresInternalStatus(t *testing.T) {
	n := parent(1, leaf(2, domain.StatusCompleted))
	n.Status = domain.StatusBlocked
	assert.True(t, IsFullyComplete(n))

	deep := parent(1, parent(2, parent(3, leaf(4, domain.StatusPending))))
	assert.False(t, IsFullyComplete(deep))
	assert.False(t, IsFullyComplete(nil))
}
