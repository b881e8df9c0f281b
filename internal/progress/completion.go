package progress

import "github.com/alexanderramin/tasktree/internal/domain"

// SubtreeCompletionRatio returns 1 or 0 for a leaf (COMPLETED or not). For a
// node with children it returns the number of direct children that are fully
// complete, not a fraction.
// TODO: confirm with product whether internal nodes should report a ratio.
func SubtreeCompletionRatio(node *domain.TreeNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf() {
		if node.Status == domain.StatusCompleted {
			return 1
		}
		return 0
	}
	count := 0
	for _, child := range node.Children {
		if IsFullyComplete(child) {
			count++
		}
	}
	return count
}

// IsFullyComplete reports whether a leaf is COMPLETED, or whether every child
// of an internal node is itself fully complete. The internal node's own
// status is not consulted.
func IsFullyComplete(node *domain.TreeNode) bool {
	if node == nil {
		return false
	}
	if node.IsLeaf() {
		return node.Status == domain.StatusCompleted
	}
	for _, child := range node.Children {
		if !IsFullyComplete(child) {
			return false
		}
	}
	return true
}
