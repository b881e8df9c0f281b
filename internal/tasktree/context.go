package tasktree

import "github.com/alexanderramin/tasktree/internal/domain"

// TreeContext holds the flat list and root parent a view is built from.
// Contexts share nothing, so independent sub-task views can each own one.
type TreeContext struct {
	Tasks        []domain.Task
	RootParentID int
}

func NewTreeContext(tasks []domain.Task, rootParentID int) *TreeContext {
	return &TreeContext{Tasks: tasks, RootParentID: rootParentID}
}

// SetTaskList replaces the list and root parent used by Tree and Flatten.
func (c *TreeContext) SetTaskList(tasks []domain.Task, parentID int) {
	c.Tasks = tasks
	c.RootParentID = parentID
}

func (c *TreeContext) Tree() []*domain.TreeNode {
	return BuildTree(c.Tasks, c.RootParentID)
}

func (c *TreeContext) Flatten() []domain.FlatTask {
	return Flatten(c.Tree())
}

// Orphans lists tasks that are not reachable from the context root.
func (c *TreeContext) Orphans() []domain.Task {
	return Orphans(c.Tasks, c.RootParentID)
}
