// Package progress computes weighted completion figures for tasks.
package progress

import (
	"math"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// UserProgress is one assignee's contribution to a task.
//
// UserProgress is the raw sum of the user's reported points; TaskProgress is
// that sum scaled by the user's share of the total task weight.
type UserProgress struct {
	User         domain.TaskUser
	TaskProgress int
	UserProgress float64
}

// WeightedUserProgress returns one entry per user, in the order given.
// When the total weight is zero every TaskProgress is zero.
func WeightedUserProgress(users []domain.TaskUser, reports []domain.TaskReport) []UserProgress {
	var totalWeight float64
	for _, u := range users {
		totalWeight += u.TaskWeight
	}

	byUser := make(map[int]float64, len(users))
	for _, r := range reports {
		byUser[r.UserID] += r.Progress
	}

	out := make([]UserProgress, 0, len(users))
	for _, u := range users {
		sum := byUser[u.ID]
		taskProgress := 0
		if totalWeight > 0 {
			taskProgress = int(math.Floor(sum * (u.TaskWeight / totalWeight)))
		}
		out = append(out, UserProgress{User: u, TaskProgress: taskProgress, UserProgress: sum})
	}
	return out
}

// TaskCompletion sums the weighted contributions of all assignees and clamps
// the result to 0..100.
func TaskCompletion(t domain.Task) int {
	total := 0
	for _, p := range WeightedUserProgress(t.Users, t.TaskReports) {
		total += p.TaskProgress
	}
	return min(max(total, 0), 100)
}
