package tasktree

import (
	"strconv"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// Flatten walks the forest depth-first, parents before children, and returns
// one row per node annotated with its depth and id path. Roots of the passed
// forest have depth 0 and an id path equal to their own id.
func Flatten(nodes []*domain.TreeNode) []domain.FlatTask {
	out := make([]domain.FlatTask, 0, countNodes(nodes))
	var walk func(nodes []*domain.TreeNode, depth int, parentPath string)
	walk = func(nodes []*domain.TreeNode, depth int, parentPath string) {
		for _, n := range nodes {
			path := strconv.Itoa(n.ID)
			if parentPath != "" {
				path = parentPath + "-" + path
			}
			out = append(out, domain.FlatTask{Task: n.Task, Depth: depth, IDPath: path})
			walk(n.Children, depth+1, path)
		}
	}
	walk(nodes, 0, "")
	return out
}

func countNodes(nodes []*domain.TreeNode) int {
	total := len(nodes)
	for _, n := range nodes {
		total += countNodes(n.Children)
	}
	return total
}
