package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
)

// SQLiteAssigneeRepo implements AssigneeRepo on SQLite.
type SQLiteAssigneeRepo struct {
	db db.DBTX
}

func NewSQLiteAssigneeRepo(db db.DBTX) *SQLiteAssigneeRepo {
	return &SQLiteAssigneeRepo{db: db}
}

// Assign adds u to the task, or updates the name and weight of an existing
// assignment.
func (r *SQLiteAssigneeRepo) Assign(ctx context.Context, taskID int, u domain.TaskUser) error {
	if u.TaskWeight < 0 {
		return fmt.Errorf("assigning user %d to task %d: task weight must be non-negative", u.ID, taskID)
	}
	query := `INSERT INTO task_users (task_id, user_id, name, task_weight) VALUES (?, ?, ?, ?)
		ON CONFLICT(task_id, user_id) DO UPDATE SET name = excluded.name, task_weight = excluded.task_weight`
	if _, err := r.db.ExecContext(ctx, query, taskID, u.ID, u.Name, u.TaskWeight); err != nil {
		return fmt.Errorf("assigning user %d to task %d: %w", u.ID, taskID, err)
	}
	return nil
}

func (r *SQLiteAssigneeRepo) Unassign(ctx context.Context, taskID, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_users WHERE task_id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("unassigning user %d from task %d: %w", userID, taskID, err)
	}
	return requireAffected(res, fmt.Sprintf("assignee %d on task %d", userID, taskID))
}

func (r *SQLiteAssigneeRepo) ListByTask(ctx context.Context, taskID int) ([]domain.TaskUser, error) {
	rows, err := queryUsers(ctx, r.db, `SELECT task_id, user_id, name, task_weight FROM task_users
		WHERE task_id = ? ORDER BY user_id`, taskID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.TaskUser, len(rows))
	for i, u := range rows {
		users[i] = u.TaskUser
	}
	return users, nil
}

type taskUserRow struct {
	taskID int
	domain.TaskUser
}

func queryUsers(ctx context.Context, q db.DBTX, query string, args ...any) ([]taskUserRow, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task users: %w", err)
	}
	defer rows.Close()

	var out []taskUserRow
	for rows.Next() {
		var u taskUserRow
		if err := rows.Scan(&u.taskID, &u.ID, &u.Name, &u.TaskWeight); err != nil {
			return nil, fmt.Errorf("scanning task user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task users: %w", err)
	}
	return out, nil
}
