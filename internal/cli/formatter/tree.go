package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	ID     int // 0 means don't display
	Title  string
	Level  int
	IsLast bool
	Status domain.TaskStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeGap    = "   "
)

// TreeItems flattens nodes into display items in depth-first order. detail,
// when non-nil, supplies the badge for each node.
func TreeItems(nodes []*domain.TreeNode, detail func(*domain.TreeNode) string) []TreeItem {
	var items []TreeItem
	var walk func(level int, nodes []*domain.TreeNode)
	walk = func(level int, nodes []*domain.TreeNode) {
		for i, n := range nodes {
			item := TreeItem{
				ID:     n.ID,
				Title:  n.Title,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Status: n.Status,
			}
			if detail != nil {
				item.Detail = detail(n)
			}
			items = append(items, item)
			walk(level+1, n.Children)
		}
	}
	walk(0, nodes)
	return items
}

// RenderTree renders items as an indented tree using box-drawing connectors.
// Items must be in depth-first order; a pipe is drawn under every ancestor
// that still has siblings below it. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	lastAt := []bool{}
	maxContentWidth := 0

	for idx, item := range items {
		for len(lastAt) <= item.Level {
			lastAt = append(lastAt, false)
		}
		lastAt[item.Level] = item.IsLast

		var prefix strings.Builder
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if lastAt[i] {
					prefix.WriteString(treeGap)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		switch item.Status {
		case domain.StatusCompleted, domain.StatusCancelled:
			title = Dim(title)
		case domain.StatusInProgress:
			title = StyleYellowBold.Render(title)
		}
		if item.ID > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.ID)) + title
		}
		glyph := StatusColor(item.Status).Render(StatusGlyph(item.Status)) + " "

		content := StyleDim.Render(prefix.String()) + glyph + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		maxContentWidth = max(maxContentWidth, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}
