package domain

// TreeNode is a task with its children attached. It is derived from a flat
// list on every read and never persisted.
type TreeNode struct {
	Task
	Children []*TreeNode
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// FlatTask is one row of a depth-first traversal.
type FlatTask struct {
	Task
	Depth  int
	IDPath string
}
