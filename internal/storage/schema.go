package storage

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists every table the schema creates, in creation order.
var Tables = []string{"user", "medication", "schedule", "reminder", "dosage_history"}

// MissingTables returns the tables of the schema that do not exist yet.
func (d *DB) MissingTables(ctx context.Context) ([]string, error) {
	existing, err := selectRows[string](ctx, d.x,
		`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, translate("inspect schema", err)
	}

	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var missing []string
	for _, name := range Tables {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
