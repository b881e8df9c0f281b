package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/progress"
)

// FormatTaskDetail renders one task with its assignees and report history.
func FormatTaskDetail(t *domain.Task, completion int) string {
	var b strings.Builder

	b.WriteString(Bold(t.Title) + "  " + TaskRef(t.ID) + "\n")
	if t.Description != "" {
		b.WriteString(Dim(t.Description) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Status:  "), StatusPill(t.Status))
	fmt.Fprintf(&b, "%s %s\n", Dim("Parent:  "), ParentRef(t.ParentID))
	fmt.Fprintf(&b, "%s %d\n", Dim("Priority:"), t.Priority)
	fmt.Fprintf(&b, "%s %s\n", Dim("Progress:"), RenderProgress(float64(completion)/100, 20))

	if len(t.Users) > 0 {
		b.WriteString("\n" + Header("Assignees") + "\n")
		rows := make([][]string, 0, len(t.Users))
		for _, u := range t.Users {
			rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, strconv.FormatFloat(u.TaskWeight, 'g', -1, 64)})
		}
		b.WriteString(RenderTableAligned([]string{"ID", "NAME", "WEIGHT"}, rows, []int{0, 2}))
	}

	if len(t.TaskReports) > 0 {
		b.WriteString("\n" + Header("Reports") + "\n")
		rows := make([][]string, 0, len(t.TaskReports))
		for _, r := range t.TaskReports {
			rows = append(rows, []string{
				strconv.Itoa(r.UserID),
				strconv.FormatFloat(r.Progress, 'g', -1, 64),
				HumanTimestamp(r.CreatedAt),
				r.Note,
			})
		}
		b.WriteString(RenderTableAligned([]string{"USER", "PROGRESS", "WHEN", "NOTE"}, rows, []int{0, 1}))
	}

	return RenderBox("Task", strings.TrimRight(b.String(), "\n"))
}

// FormatFlatTable renders a flattened traversal as DEPTH / ID PATH / TITLE / STATUS.
func FormatFlatTable(rows []domain.FlatTask) string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.Depth),
			r.IDPath,
			strings.Repeat("  ", r.Depth) + r.Title,
			StatusPill(r.Status),
		})
	}
	return RenderTableAligned([]string{"DEPTH", "ID PATH", "TITLE", "STATUS"}, cells, []int{0})
}

// ProgressData is the input to FormatProgress.
type ProgressData struct {
	Task             domain.Task
	Users            []progress.UserProgress
	Completion       int
	SubtreeCompleted int
	ChildCount       int
	FullyComplete    bool
}

// FormatProgress renders per-assignee weighted progress and the subtree summary.
func FormatProgress(d ProgressData) string {
	var b strings.Builder

	b.WriteString(Bold(d.Task.Title) + "  " + TaskRef(d.Task.ID) + "  " + StatusPill(d.Task.Status) + "\n\n")

	if len(d.Users) == 0 {
		b.WriteString(Dim("No assignees.") + "\n")
	} else {
		rows := make([][]string, 0, len(d.Users))
		for _, up := range d.Users {
			rows = append(rows, []string{
				up.User.Name,
				strconv.FormatFloat(up.User.TaskWeight, 'g', -1, 64),
				strconv.FormatFloat(up.UserProgress, 'g', -1, 64),
				RenderProgress(float64(up.TaskProgress)/100, 16),
			})
		}
		b.WriteString(RenderTableAligned([]string{"USER", "WEIGHT", "REPORTED", "CONTRIBUTION"}, rows, []int{1, 2}))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Task completion:"), RenderProgress(float64(d.Completion)/100, 20))
	if d.ChildCount > 0 {
		line := fmt.Sprintf("%d of %d subtasks completed", d.SubtreeCompleted, d.ChildCount)
		if d.FullyComplete {
			line = StyleGreen.Render(line + " ✔")
		}
		fmt.Fprintf(&b, "%s %s\n", Dim("Subtree:        "), line)
	}
	return b.String()
}

// FormatLint renders structural problems in a task list.
func FormatLint(orphans []domain.Task, cycles [][]int) string {
	if len(orphans) == 0 && len(cycles) == 0 {
		return StyleGreen.Render("✔ No structural problems found.") + "\n"
	}

	var b strings.Builder
	if len(orphans) > 0 {
		b.WriteString(Header(fmt.Sprintf("Orphans (%d)", len(orphans))) + "\n")
		rows := make([][]string, 0, len(orphans))
		for _, t := range orphans {
			rows = append(rows, []string{strconv.Itoa(t.ID), ParentRef(t.ParentID), t.Title})
		}
		b.WriteString(RenderTableAligned([]string{"ID", "MISSING PARENT", "TITLE"}, rows, []int{0}))
	}
	if len(cycles) > 0 {
		if len(orphans) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(fmt.Sprintf("Cycles (%d)", len(cycles))) + "\n")
		for _, c := range cycles {
			b.WriteString(StyleRed.Render("● ") + FormatCycle(c) + "\n")
		}
	}
	return b.String()
}

// FormatCycle renders a closed walk as "3 -> 4 -> 3".
func FormatCycle(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " -> ")
}

// FormatOrder renders a sibling order as a numbered list, resolving titles
// from siblings.
func FormatOrder(siblings []domain.Task, order []int) string {
	titles := make(map[int]string, len(siblings))
	for _, s := range siblings {
		titles[s.ID] = s.Title
	}
	var b strings.Builder
	for i, id := range order {
		fmt.Fprintf(&b, "%s %s %s\n", Dim(fmt.Sprintf("%2d.", i+1)), TaskRef(id), titles[id])
	}
	return b.String()
}
