package storage

import (
	stderrors "errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/manav03panchal/medtrack/internal/errors"
)

// isForeignKeyViolation reports whether err is SQLite rejecting a statement
// because of a foreign key constraint.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if stderrors.As(err, &se) {
		code := se.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		if code&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(se.Error(), "FOREIGN KEY") {
			return true
		}
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// reference names a parent row a write points at.
type reference struct {
	entity string
	id     int64
}

// missingReference builds the user error for a dangling parent reference.
func missingReference(ref reference) error {
	return errors.NewUserErrorWithField(
		ref.entity+" id",
		fmt.Sprint(ref.id),
		"no "+ref.entity+" with ID",
		"",
	).Because(errors.ErrMissingReference)
}

// translate turns a driver error into the error taxonomy. It is used for
// failures that are not caused by user input.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsUserError(err) || errors.IsSystemError(err) {
		return err
	}
	if errors.IsDiskFull(err) {
		return errors.NewSystemErrorWithOp(op, "disk full",
			fmt.Errorf("%w: %v", errors.ErrDiskFull, err))
	}
	if strings.Contains(strings.ToLower(err.Error()), "malformed") ||
		strings.Contains(strings.ToLower(err.Error()), "not a database") {
		return errors.NewSystemErrorWithOp(op, "database corrupted",
			fmt.Errorf("%w: %v", errors.ErrDatabaseCorrupted, err))
	}
	return errors.NewSystemErrorWithOp(op, "database error", err)
}

// writeError translates a failed INSERT or UPDATE. A foreign key violation
// means ref does not exist.
func writeError(op string, err error, ref reference) error {
	if isForeignKeyViolation(err) {
		return missingReference(ref)
	}
	return translate(op, err)
}

// deleteError translates a failed DELETE. A foreign key violation means
// dosage history still refers to the row or one of its cascaded children.
func deleteError(op string, err error, entity string, id int64) error {
	if isForeignKeyViolation(err) {
		return errors.NewUserError(
			fmt.Sprintf("%s %d is referenced by dosage history", entity, id),
			"",
		).Because(errors.ErrReferencedByHistory)
	}
	return translate(op, err)
}
