package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/tasktree"
)

// ErrCycle is wrapped by every cycle error ValidateSnapshot reports.
var ErrCycle = errors.New("parent cycle")

// ValidateSnapshot checks the snapshot before conversion and returns every
// problem found.
func ValidateSnapshot(snap *Snapshot) []error {
	var errs []error

	if len(snap.Tasks) == 0 {
		return []error{fmt.Errorf("snapshot contains no tasks")}
	}

	ids := make(map[int]bool, len(snap.Tasks))
	for i, t := range snap.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if t.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive, got %d", prefix, t.ID))
		} else if ids[t.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, t.ID))
		} else {
			ids[t.ID] = true
		}
		errs = append(errs, validateTask(prefix, t)...)
	}

	for i, t := range snap.Tasks {
		parent := domain.ParentOrRoot(t.ParentID)
		if parent != domain.RootParentID && !ids[parent] {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_id: task %d not found in snapshot", i, parent))
		}
	}

	for _, cycle := range tasktree.FindCycles(parentView(snap)) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrCycle, joinIDs(cycle)))
	}

	return errs
}

func validateTask(prefix string, t TaskImport) []error {
	var errs []error

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if t.Status != "" {
		if _, err := domain.ParseTaskStatus(t.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: %w", prefix, err))
		}
	}
	if t.Priority != nil && *t.Priority < 0 {
		errs = append(errs, fmt.Errorf("%s.priority must be non-negative", prefix))
	}

	users := make(map[int]bool, len(t.Users))
	for j, u := range t.Users {
		up := fmt.Sprintf("%s.users[%d]", prefix, j)
		if u.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", up))
		} else if users[u.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate user %d", up, u.ID))
		}
		users[u.ID] = true
		if u.TaskWeight != nil && *u.TaskWeight < 0 {
			errs = append(errs, fmt.Errorf("%s.task_weight must be non-negative", up))
		}
	}

	for j, r := range t.TaskReports {
		rp := fmt.Sprintf("%s.task_reports[%d]", prefix, j)
		if r.UserID <= 0 {
			errs = append(errs, fmt.Errorf("%s.user_id must be positive", rp))
		}
		if r.CreatedAt != "" {
			if _, err := time.Parse(time.RFC3339, r.CreatedAt); err != nil {
				errs = append(errs, fmt.Errorf("%s.created_at: invalid timestamp %q (expected RFC 3339)", rp, r.CreatedAt))
			}
		}
	}

	return errs
}

// parentView reduces the snapshot to the id and parent pairs cycle
// detection needs.
func parentView(snap *Snapshot) []domain.Task {
	tasks := make([]domain.Task, len(snap.Tasks))
	for i, t := range snap.Tasks {
		tasks[i] = domain.Task{ID: t.ID, ParentID: domain.ParentOrRoot(t.ParentID)}
	}
	return tasks
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " -> ")
}
