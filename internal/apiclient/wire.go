package apiclient

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
)

// taskJSON is a task as the backend serialises it.
type taskJSON struct {
	ID          int          `json:"id"`
	ParentID    int          `json:"parent_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    int          `json:"priority"`
	Users       []userJSON   `json:"users"`
	TaskReports []reportJSON `json:"task_reports"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type userJSON struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	TaskWeight float64 `json:"task_weight"`
}

type reportJSON struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Progress  float64   `json:"progress"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type priorityRequest struct {
	ParentID   int   `json:"parent_id"`
	OrderedIDs []int `json:"ordered_ids"`
}

type priorityResponse struct {
	ParentID   *int   `json:"parent_id"`
	OrderedIDs []int  `json:"ordered_ids"`
	Updated    *int   `json:"updated"`
	Message    string `json:"message"`
}

func (t taskJSON) toDomain() (domain.Task, error) {
	status := domain.StatusPending
	if t.Status != "" {
		s, err := domain.ParseTaskStatus(t.Status)
		if err != nil {
			return domain.Task{}, fmt.Errorf("task %d: %w", t.ID, err)
		}
		status = s
	}

	task := domain.Task{
		ID:          t.ID,
		ParentID:    t.ParentID,
		Title:       t.Title,
		Description: t.Description,
		Status:      status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, u := range t.Users {
		task.Users = append(task.Users, domain.TaskUser{ID: u.ID, Name: u.Name, TaskWeight: u.TaskWeight})
	}
	for _, r := range t.TaskReports {
		task.TaskReports = append(task.TaskReports, domain.TaskReport{
			ID:        r.ID,
			TaskID:    t.ID,
			UserID:    r.UserID,
			Progress:  r.Progress,
			Note:      r.Note,
			CreatedAt: r.CreatedAt,
		})
	}
	return task, nil
}

// toResponse fills fields the backend omitted from the request that was sent.
func (r priorityResponse) toResponse(req priorityRequest) *priority.Response {
	resp := &priority.Response{
		ParentID:   domain.IntFromPtrWithDefault(req.ParentID, r.ParentID),
		OrderedIDs: r.OrderedIDs,
		Updated:    domain.IntFromPtrWithDefault(len(req.OrderedIDs), r.Updated),
		Message:    r.Message,
	}
	if resp.OrderedIDs == nil {
		resp.OrderedIDs = append([]int(nil), req.OrderedIDs...)
	}
	return resp
}
