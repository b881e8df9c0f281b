package repository

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is the on-disk format for every timestamp column.
const timeLayout = time.RFC3339

// parseTime parses a stored timestamp, naming the column in the error.
func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// formatTime converts t to its stored form, substituting now for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

// inClause returns "(?, ?, ...)" and the matching args for ids.
func inClause(ids []int) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")", args
}
