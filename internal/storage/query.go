package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/manav03panchal/medtrack/internal/logging"
)

// where collects column predicates joined with AND. Column names are
// constants in this package; values are always bound parameters.
type where struct {
	clauses []string
	args    []any
}

func (w *where) eq(col string, v any) *where {
	return w.add(col+" = ?", v)
}

func (w *where) gt(col string, v any) *where {
	return w.add(col+" > ?", v)
}

func (w *where) gte(col string, v any) *where {
	return w.add(col+" >= ?", v)
}

func (w *where) lte(col string, v any) *where {
	return w.add(col+" <= ?", v)
}

func (w *where) between(col string, lo, hi any) *where {
	return w.add(col+" BETWEEN ? AND ?", lo, hi)
}

func (w *where) add(clause string, args ...any) *where {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
	return w
}

func (w *where) empty() bool {
	return len(w.clauses) == 0
}

// sql renders " WHERE a = ? AND b = ?", or "" when no predicate was added.
func (w *where) sql() string {
	if w.empty() {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// setList collects the assignments of an UPDATE.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setList) empty() bool {
	return len(s.cols) == 0
}

func (s *setList) sql() string {
	return strings.Join(s.cols, ", ")
}

// oneLine collapses a query to a single line for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func logQuery(ctx context.Context, query string, args []any, rows int64, err error) {
	logging.FromContext(ctx).Debugw("sql",
		logging.KeyQuery, oneLine(query),
		logging.KeyArgs, args,
		logging.KeyRows, rows,
		logging.KeyError, err,
	)
}

// execContext runs a statement on db or tx and logs it.
func execContext(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) (sql.Result, error) {
	res, err := ext.ExecContext(ctx, query, args...)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(ctx, query, args, rowsAffected, err)

	return res, err
}

// selectRows scans every row of query into a slice of T and logs it.
func selectRows[T any](ctx context.Context, ext sqlx.ExtContext, query string, args ...any) ([]T, error) {
	var dest []T
	err := sqlx.SelectContext(ctx, ext, &dest, query, args...)
	logQuery(ctx, query, args, int64(len(dest)), err)
	return dest, err
}

// getRow scans exactly one row. It returns sql.ErrNoRows when there is none.
func getRow[T any](ctx context.Context, ext sqlx.ExtContext, query string, args ...any) (T, error) {
	var dest T
	err := sqlx.GetContext(ctx, ext, &dest, query, args...)

	var rows int64
	if err == nil {
		rows = 1
	}
	logQuery(ctx, query, args, rows, err)
	return dest, err
}
