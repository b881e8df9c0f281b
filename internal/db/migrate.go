package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// full list runs on each open; ALTER TABLE statements that were already
// applied fail with "duplicate column name" and are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// parent_id carries no foreign key: 0 is the root sentinel, and snapshots
	// from the backend may reference parents that are not present locally.
	`CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY CHECK(id > 0),
		parent_id   INTEGER NOT NULL DEFAULT 0,
		title       TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'PENDING'
		            CHECK(status IN ('PENDING','IN_PROGRESS','COMPLETED','BLOCKED','CANCELLED','BACK_LOG')),
		priority    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id, priority)`,

	`CREATE TABLE IF NOT EXISTS task_users (
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id     INTEGER NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		task_weight REAL NOT NULL DEFAULT 1 CHECK(task_weight >= 0),
		PRIMARY KEY (task_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_reports (
		id          TEXT PRIMARY KEY,
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id     INTEGER NOT NULL,
		progress    REAL NOT NULL DEFAULT 0,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_reports_task ON task_reports(task_id)`,

	// Task descriptions arrived after the first snapshot importer.
	`ALTER TABLE tasks ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
}
