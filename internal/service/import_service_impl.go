package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/importer"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportSnapshot(ctx context.Context, path string, replace bool) (*ImportResult, error) {
	snap, err := importer.LoadSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportFromSnapshot(ctx, snap, replace)
}

// ImportFromSnapshot validates snap and writes all of it in one transaction.
// With replace, every existing task is deleted first.
func (s *importService) ImportFromSnapshot(ctx context.Context, snap *importer.Snapshot, replace bool) (result *ImportResult, err error) {
	fields := map[string]any{"replace": replace}
	defer observe(ctx, s.observer, "import-snapshot", time.Now(), fields, &err)

	if errs := importer.ValidateSnapshot(snap); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	tasks, err := importer.Convert(snap)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAssignees := repository.NewSQLiteAssigneeRepo(tx)
		txReports := repository.NewSQLiteReportRepo(tx)

		if replace {
			res, err := tx.ExecContext(ctx, `DELETE FROM tasks`)
			if err != nil {
				return fmt.Errorf("clearing tasks: %w", err)
			}
			n, _ := res.RowsAffected()
			result.Replaced = int(n)
		}

		for i := range tasks {
			t := &tasks[i]
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %d: %w", t.ID, err)
			}
			for _, u := range t.Users {
				if err := txAssignees.Assign(ctx, t.ID, u); err != nil {
					return err
				}
				result.AssigneeCount++
			}
			for j := range t.TaskReports {
				if err := txReports.Create(ctx, &t.TaskReports[j]); err != nil {
					return err
				}
				result.ReportCount++
			}
			result.TaskCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["tasks"] = result.TaskCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "snapshot validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, b.String())
}
