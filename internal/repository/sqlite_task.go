package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, parent_id, title, description, status, priority, created_at, updated_at`

// siblingOrder keeps each parent's children contiguous and in priority order.
const siblingOrder = ` ORDER BY parent_id, priority, id`

// subtreeCTE selects the ids of every descendant of the bound root id.
// UNION discards repeated ids, so cyclic parent chains terminate.
const subtreeCTE = `WITH RECURSIVE subtree(id) AS (
		SELECT id FROM tasks WHERE parent_id = ?
		UNION
		SELECT t.id FROM tasks t JOIN subtree s ON t.parent_id = s.id
	)`

// SQLiteTaskRepo implements TaskRepo on SQLite.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo accepts a *sql.DB or a *sql.Tx.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if t.ID <= 0 {
		return fmt.Errorf("inserting task: id must be positive, got %d", t.ID)
	}
	query := `INSERT INTO tasks (id, parent_id, title, description, status, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ParentID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task %d: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	tasks := []domain.Task{*t}
	if err := r.hydrate(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (r *SQLiteTaskRepo) ListAll(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks`+siblingOrder)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID int) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? AND id != ?`+siblingOrder,
		parentID, parentID)
}

// ListSubtree returns every descendant of rootID, excluding rootID itself.
func (r *SQLiteTaskRepo) ListSubtree(ctx context.Context, rootID int) ([]domain.Task, error) {
	if rootID == domain.RootParentID {
		return r.ListAll(ctx)
	}
	query := subtreeCTE + ` SELECT ` + taskColumns + ` FROM tasks
		WHERE id IN (SELECT id FROM subtree) AND id != ?` + siblingOrder
	return r.list(ctx, query, rootID, rootID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, title = ?, description = ?, status = ?,
		priority = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ParentID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", t.ID, err)
	}
	return requireAffected(res, fmt.Sprintf("task %d", t.ID))
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("task %d", id))
}

// DeleteSubtree removes rootID and all of its descendants and returns the
// number of tasks deleted.
func (r *SQLiteTaskRepo) DeleteSubtree(ctx context.Context, rootID int) (int, error) {
	query := subtreeCTE + ` DELETE FROM tasks WHERE id = ? OR id IN (SELECT id FROM subtree)`
	res, err := r.db.ExecContext(ctx, query, rootID, rootID)
	if err != nil {
		return 0, fmt.Errorf("deleting subtree of task %d: %w", rootID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("task %d: %w", rootID, ErrNotFound)
	}
	return int(n), nil
}

// UpdatePriorities writes each id's position in orderedIDs as its priority.
// Every id must currently be a child of parentID. Run it inside a
// UnitOfWork so a rejected id leaves the previous order intact.
func (r *SQLiteTaskRepo) UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (int, error) {
	now := formatTime(time.Now())
	updated := 0
	for pos, id := range orderedIDs {
		res, err := r.db.ExecContext(ctx,
			`UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ? AND parent_id = ?`,
			pos, now, id, parentID)
		if err != nil {
			return updated, fmt.Errorf("updating priority of task %d: %w", id, err)
		}
		if err := requireAffected(res, fmt.Sprintf("task %d under parent %d", id, parentID)); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// NextPriority returns the priority that places a new task last among the
// children of parentID.
func (r *SQLiteTaskRepo) NextPriority(ctx context.Context, parentID int) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(priority) + 1, 0) FROM tasks WHERE parent_id = ?`, parentID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next priority under %d: %w", parentID, err)
	}
	return next, nil
}

// NextID returns one past the largest task id in the store.
func (r *SQLiteTaskRepo) NextID(ctx context.Context) (int, error) {
	var next int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM tasks`).Scan(&next); err != nil {
		return 0, fmt.Errorf("computing next task id: %w", err)
	}
	return next, nil
}

func (r *SQLiteTaskRepo) list(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// hydrate attaches assignees and reports to tasks in two queries.
func (r *SQLiteTaskRepo) hydrate(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	pos := make(map[int]int, len(tasks))
	for i, t := range tasks {
		pos[t.ID] = i
	}
	in, args := inClause(domain.TaskIDs(tasks))

	users, err := queryUsers(ctx, r.db, `SELECT task_id, user_id, name, task_weight FROM task_users
		WHERE task_id IN `+in+` ORDER BY task_id, user_id`, args...)
	if err != nil {
		return err
	}
	for _, u := range users {
		i := pos[u.taskID]
		tasks[i].Users = append(tasks[i].Users, u.TaskUser)
	}

	reports, err := queryReports(ctx, r.db, `SELECT `+reportColumns+` FROM task_reports
		WHERE task_id IN `+in+` ORDER BY created_at, id`, args...)
	if err != nil {
		return err
	}
	for _, rep := range reports {
		i := pos[rep.TaskID]
		tasks[i].TaskReports = append(tasks[i].TaskReports, rep)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.ParentID, &t.Title, &t.Description, &status, &t.Priority, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Status = domain.TaskStatus(status)
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	defer rows.Close()
	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows for %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
