// Package tasktree derives nested and flattened views from a flat list of
// parent-pointer task records.
package tasktree

import "github.com/alexanderramin/tasktree/internal/domain"

// BuildTree returns the direct children of parentID with their descendants
// attached. Sibling order follows the input order. Tasks whose parent is not
// reachable from parentID (missing parent, or part of a cycle) are left out.
func BuildTree(tasks []domain.Task, parentID int) []*domain.TreeNode {
	children := indexChildren(tasks)
	visited := make(map[int]bool, len(tasks)+1)
	visited[parentID] = true
	return attach(tasks, children, parentID, visited)
}

// indexChildren groups task positions by parent id in one pass.
func indexChildren(tasks []domain.Task) map[int][]int {
	children := make(map[int][]int, len(tasks))
	for i, t := range tasks {
		children[t.ParentID] = append(children[t.ParentID], i)
	}
	return children
}

func attach(tasks []domain.Task, children map[int][]int, parentID int, visited map[int]bool) []*domain.TreeNode {
	idxs := children[parentID]
	nodes := make([]*domain.TreeNode, 0, len(idxs))
	for _, i := range idxs {
		t := tasks[i]
		if visited[t.ID] {
			continue
		}
		visited[t.ID] = true
		node := &domain.TreeNode{Task: t}
		node.Children = attach(tasks, children, t.ID, visited)
		nodes = append(nodes, node)
	}
	return nodes
}

// Siblings returns the direct children of parentID in input order.
func Siblings(tasks []domain.Task, parentID int) []domain.Task {
	out := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.ParentID == parentID && t.ID != parentID {
			out = append(out, t)
		}
	}
	return out
}

// Orphans returns, in input order, the tasks that BuildTree(tasks, rootParentID)
// would not place anywhere in the tree.
func Orphans(tasks []domain.Task, rootParentID int) []domain.Task {
	reached := make(map[int]bool, len(tasks))
	var mark func(nodes []*domain.TreeNode)
	mark = func(nodes []*domain.TreeNode) {
		for _, n := range nodes {
			reached[n.ID] = true
			mark(n.Children)
		}
	}
	mark(BuildTree(tasks, rootParentID))

	var out []domain.Task
	for _, t := range tasks {
		if !reached[t.ID] && t.ID != rootParentID {
			out = append(out, t)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest parent first, stopping at
// the root sentinel, a missing parent or a repeated id.
func Ancestors(tasks []domain.Task, id int) []int {
	parents := make(map[int]int, len(tasks))
	for _, t := range tasks {
		if _, dup := parents[t.ID]; !dup {
			parents[t.ID] = t.ParentID
		}
	}

	var chain []int
	seen := map[int]bool{id: true}
	cur := id
	for {
		parent, ok := parents[cur]
		if !ok || parent == domain.RootParentID || seen[parent] {
			return chain
		}
		if _, known := parents[parent]; !known {
			return chain
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}
}

// FindNode searches the forest depth-first for the node with the given id.
func FindNode(nodes []*domain.TreeNode, id int) *domain.TreeNode {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := FindNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}
