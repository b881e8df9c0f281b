package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory task store with the tasks, task_users
// and task_reports tables migrated. It is closed on test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory task store")
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in one of the task store tables.
func CountRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	switch table {
	case "tasks", "task_users", "task_reports":
	default:
		t.Fatalf("CountRows: unknown table %q", table)
	}
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
