// Package storage provides the SQLite database layer for medtrack.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/manav03panchal/medtrack/internal/logging"
)

const (
	// AppName is the application name used for data directories.
	AppName = "medtrack"
	// FileName is the database file name inside the data directory.
	FileName = "medicationtracker.db"
	// MemoryPath selects a private in-memory database.
	MemoryPath = ":memory:"

	driverName = "sqlite"
	// busyTimeoutMS is how long a statement waits on a lock held by another process.
	busyTimeoutMS = 5000
)

// DB wraps the single shared SQLite connection pool.
type DB struct {
	x    *sqlx.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database file path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, FileName)
}

// IsMemory reports whether path selects an in-memory database.
func IsMemory(path string) bool {
	return path == "" || path == MemoryPath
}

func dsn(path string) string {
	pragmas := fmt.Sprintf("?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", busyTimeoutMS)
	if IsMemory(path) {
		return "file::memory:" + pragmas
	}
	return "file:" + path + pragmas
}

// Open opens or creates a database at the given path and ensures the schema.
func Open(ctx context.Context, opts Options) (*DB, error) {
	path := opts.Path
	if opts.InMemory || IsMemory(path) {
		path = ""
	} else if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, translate("open database", err)
	}

	d := NewFromSQL(sqlDB)
	d.path = path

	if err := d.init(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logging.FromContext(ctx).Debugw("database opened",
		logging.KeyPath, d.displayPath(),
	)
	return d, nil
}

// NewFromSQL wraps an existing *sql.DB without touching the schema.
// Every statement runs on one connection.
func NewFromSQL(sqlDB *sql.DB) *DB {
	sqlDB.SetMaxOpenConns(1)
	return &DB{x: sqlx.NewDb(sqlDB, driverName)}
}

func (d *DB) init(ctx context.Context) error {
	// The DSN pragma covers reconnects; this covers drivers that ignore it.
	if _, err := d.x.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return translate("enable foreign keys", err)
	}

	missing, err := d.MissingTables(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	if err := d.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := execContext(ctx, tx, schemaSQL)
		return err
	}); err != nil {
		return translate("initialize schema", err)
	}

	logging.FromContext(ctx).Debugw("schema initialized",
		"created", strings.Join(missing, ","),
	)
	return nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.x.Close()
}

// Path returns the database file path; empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) displayPath() string {
	if d.path == "" {
		return MemoryPath
	}
	return d.path
}

// SQLX returns the underlying handle for advanced operations.
func (d *DB) SQLX() *sqlx.DB {
	return d.x
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.x.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			panic(rec)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.FromContext(ctx).Errorw("rollback failed", logging.KeyError, rbErr)
		}
		return err
	}
	return tx.Commit()
}
