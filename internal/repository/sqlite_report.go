package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/google/uuid"
)

const reportColumns = `id, task_id, user_id, progress, note, created_at`

// SQLiteReportRepo implements ReportRepo on SQLite.
type SQLiteReportRepo struct {
	db db.DBTX
}

func NewSQLiteReportRepo(db db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: db}
}

// Create stores rep, assigning a UUID when r.ID is empty.
func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.TaskReport) error {
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	query := `INSERT INTO task_reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.TaskID,
		rep.UserID,
		rep.Progress,
		rep.Note,
		formatTime(rep.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting report for task %d: %w", rep.TaskID, err)
	}
	return nil
}

func (r *SQLiteReportRepo) ListByTask(ctx context.Context, taskID int) ([]domain.TaskReport, error) {
	return queryReports(ctx, r.db, `SELECT `+reportColumns+` FROM task_reports
		WHERE task_id = ? ORDER BY created_at, id`, taskID)
}

func (r *SQLiteReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	return requireAffected(res, "report "+id)
}

func queryReports(ctx context.Context, q db.DBTX, query string, args ...any) ([]domain.TaskReport, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.TaskReport, 0)
	for rows.Next() {
		var rep domain.TaskReport
		var createdAt string
		if err := rows.Scan(&rep.ID, &rep.TaskID, &rep.UserID, &rep.Progress, &rep.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task report: %w", err)
		}
		if rep.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task reports: %w", err)
	}
	return reports, nil
}
