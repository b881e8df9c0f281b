// Package importer loads task snapshots exported from the HR backend,
// validates them and converts them into domain tasks.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is the top-level structure of an import file. A JSON file may
// also be a bare array of tasks, matching the backend's list response.
type Snapshot struct {
	Tasks []TaskImport `json:"tasks" yaml:"tasks"`
}

// TaskImport is one task record in backend field names.
type TaskImport struct {
	ID          int            `json:"id" yaml:"id"`
	ParentID    *int           `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string         `json:"status,omitempty" yaml:"status,omitempty"`
	Priority    *int           `json:"priority,omitempty" yaml:"priority,omitempty"`
	Users       []UserImport   `json:"users,omitempty" yaml:"users,omitempty"`
	TaskReports []ReportImport `json:"task_reports,omitempty" yaml:"task_reports,omitempty"`
}

// UserImport is an assignee. TaskWeight defaults to 1 when omitted.
type UserImport struct {
	ID         int      `json:"id" yaml:"id"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	TaskWeight *float64 `json:"task_weight,omitempty" yaml:"task_weight,omitempty"`
}

// ReportImport is a progress entry. CreatedAt is RFC 3339 when present.
type ReportImport struct {
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	UserID    int     `json:"user_id" yaml:"user_id"`
	Progress  float64 `json:"progress" yaml:"progress"`
	Note      string  `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// LoadSnapshot reads a snapshot file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON accepts either {"tasks": [...]} or a bare array.
func ParseJSON(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &snap.Tasks); err != nil {
			return nil, fmt.Errorf("parsing snapshot: %w", err)
		}
		return &snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

func ParseYAML(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}
