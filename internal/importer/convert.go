package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/google/uuid"
)

// Convert turns a validated snapshot into domain tasks in file order.
// Omitted priorities become the task's position among its siblings in the
// file; omitted statuses become PENDING. Call ValidateSnapshot first.
func Convert(snap *Snapshot) ([]domain.Task, error) {
	now := time.Now().UTC()
	position := make(map[int]int)

	tasks := make([]domain.Task, 0, len(snap.Tasks))
	for _, in := range snap.Tasks {
		parent := domain.ParentOrRoot(in.ParentID)
		prio := domain.IntFromPtrWithDefault(position[parent], in.Priority)
		position[parent]++

		status := domain.StatusPending
		if in.Status != "" {
			s, err := domain.ParseTaskStatus(in.Status)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", in.ID, err)
			}
			status = s
		}

		t := domain.Task{
			ID:          in.ID,
			ParentID:    parent,
			Title:       in.Title,
			Description: in.Description,
			Status:      status,
			Priority:    prio,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, u := range in.Users {
			weight := 1.0
			if u.TaskWeight != nil {
				weight = *u.TaskWeight
			}
			t.Users = append(t.Users, domain.TaskUser{
				ID:         u.ID,
				Name:       domain.CoalesceStr(u.Name, fmt.Sprintf("user-%d", u.ID)),
				TaskWeight: weight,
			})
		}
		for _, r := range in.TaskReports {
			created := now
			if r.CreatedAt != "" {
				parsed, err := time.Parse(time.RFC3339, r.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("task %d report: parsing created_at: %w", in.ID, err)
				}
				created = parsed
			}
			t.TaskReports = append(t.TaskReports, domain.TaskReport{
				ID:        domain.CoalesceStr(r.ID, uuid.New().String()),
				TaskID:    in.ID,
				UserID:    r.UserID,
				Progress:  r.Progress,
				Note:      r.Note,
				CreatedAt: created,
			})
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
