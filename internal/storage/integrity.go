package storage

import (
	"context"
	"path/filepath"
	"time"
)

// HealthStatus is the result of a database health check.
type HealthStatus struct {
	Healthy       bool      `json:"healthy"`
	Path          string    `json:"path"`
	CheckedAt     time.Time `json:"checked_at"`
	MissingTables []string  `json:"missing_tables,omitempty"`
	Problems      []string  `json:"problems,omitempty"`
	FreeBytes     uint64    `json:"free_bytes,omitempty"`
	DiskWarning   string    `json:"disk_warning,omitempty"`
}

// CheckHealth runs SQLite's integrity and foreign key checks, confirms the
// schema is complete and reports free disk space for file databases.
func (d *DB) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Path:      d.displayPath(),
		CheckedAt: time.Now(),
	}

	integrity, err := selectRows[string](ctx, d.x, `PRAGMA integrity_check`)
	if err != nil {
		return nil, translate("check integrity", err)
	}
	for _, line := range integrity {
		if line != "ok" {
			status.Problems = append(status.Problems, line)
		}
	}

	type fkViolation struct {
		Table  string `db:"table"`
		RowID  *int64 `db:"rowid"`
		Parent string `db:"parent"`
		FKID   int64  `db:"fkid"`
	}
	violations, err := selectRows[fkViolation](ctx, d.x, `PRAGMA foreign_key_check`)
	if err != nil {
		return nil, translate("check foreign keys", err)
	}
	for _, v := range violations {
		status.Problems = append(status.Problems,
			"dangling reference from "+v.Table+" to "+v.Parent)
	}

	status.MissingTables, err = d.MissingTables(ctx)
	if err != nil {
		return nil, err
	}

	if d.path != "" {
		dir := filepath.Dir(d.path)
		if info, err := GetDiskSpace(dir); err == nil {
			status.FreeBytes = info.FreeBytes
		}
		status.DiskWarning = CheckDiskSpaceWarning(dir)
	}

	status.Healthy = len(status.Problems) == 0 && len(status.MissingTables) == 0
	return status, nil
}
