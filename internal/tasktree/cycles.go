package tasktree

import "github.com/alexanderramin/tasktree/internal/domain"

// FindCycles returns every parent-pointer cycle in tasks. Each cycle is
// listed once as a closed walk from child to parent, for example [3 4 3]
// when 3's parent is 4 and 4's parent is 3. Cycles are reported in the
// order their first member appears in the input, which keeps the output
// deterministic.
func FindCycles(tasks []domain.Task) [][]int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	parents := make(map[int]int, len(tasks))
	for _, t := range tasks {
		if _, dup := parents[t.ID]; !dup {
			parents[t.ID] = t.ParentID
		}
	}

	color := make(map[int]int, len(parents))
	var cycles [][]int
	for _, t := range tasks {
		if color[t.ID] != white {
			continue
		}

		// Each task has one parent, so the walk is a path that either
		// leaves the list, reaches settled ground, or closes on itself.
		var walk []int
		cur := t.ID
		for {
			if _, ok := parents[cur]; !ok || color[cur] == black {
				break
			}
			if color[cur] == gray {
				start := indexOf(walk, cur)
				cycle := append(append([]int(nil), walk[start:]...), cur)
				cycles = append(cycles, cycle)
				break
			}
			color[cur] = gray
			walk = append(walk, cur)
			cur = parents[cur]
		}
		for _, id := range walk {
			color[id] = black
		}
	}
	return cycles
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
