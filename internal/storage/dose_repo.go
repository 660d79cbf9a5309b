package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/manav03panchal/medtrack/internal/model"
)

const doseColumns = `id, user_id, medication_id, time_taken`

// DoseRepo records dosage history. Entries are append-only.
type DoseRepo struct {
	db  *DB
	now func() time.Time
}

// NewDoseRepo creates a new dosage history repository using the wall clock.
func NewDoseRepo(db *DB) *DoseRepo {
	return &DoseRepo{db: db, now: time.Now}
}

// SetClock replaces the clock used for time taken.
func (r *DoseRepo) SetClock(now func() time.Time) {
	r.now = now
}

// Record appends an entry stating userID took medicationID now.
// Both references are checked in the same transaction as the insert so the
// error can name the missing one.
func (r *DoseRepo) Record(ctx context.Context, userID, medicationID int64) (*model.DoseEntry, error) {
	stamp := model.FormatSecond(model.WallClock(r.now()))

	var id int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, ref := range []reference{{"user", userID}, {"medication", medicationID}} {
			ok, err := exists(ctx, tx, ref)
			if err != nil {
				return err
			}
			if !ok {
				return missingReference(ref)
			}
		}

		res, err := execContext(ctx, tx,
			`INSERT INTO dosage_history (user_id, medication_id, time_taken) VALUES (?, ?, ?)`,
			userID, medicationID, stamp)
		if err != nil {
			return writeError("record dosage", err, reference{"user", userID})
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, translate("record dosage", err)
	}

	taken, _ := model.ParseSecond(stamp)
	return &model.DoseEntry{ID: id, UserID: userID, MedicationID: medicationID, TimeTaken: taken}, nil
}

// List returns the whole history in insertion order.
func (r *DoseRepo) List(ctx context.Context) ([]*model.DoseEntry, error) {
	return r.find(ctx, "view dosage history", &where{})
}

// ListByUser returns the history of one user in insertion order.
func (r *DoseRepo) ListByUser(ctx context.Context, userID int64) ([]*model.DoseEntry, error) {
	return r.find(ctx, "view dosage history", (&where{}).eq("user_id", userID))
}

func (r *DoseRepo) find(ctx context.Context, op string, w *where) ([]*model.DoseEntry, error) {
	rows, err := selectRows[doseRow](ctx, r.db.x,
		`SELECT `+doseColumns+` FROM dosage_history`+w.sql()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, translate(op, err)
	}

	entries, err := convertRows(rows, doseRow.model)
	if err != nil {
		return nil, translate(op, err)
	}
	return entries, nil
}

// exists reports whether the referenced row is present.
func exists(ctx context.Context, ext sqlx.ExtContext, ref reference) (bool, error) {
	// ref.entity is one of this package's table names.
	_, err := getRow[int64](ctx, ext, `SELECT id FROM `+ref.entity+` WHERE id = ?`, ref.id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
