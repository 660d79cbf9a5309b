package storage

import (
	"context"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
)

const medicationColumns = `id, name, dosage, user_id`

// MedicationRepo provides operations for Medication entities.
type MedicationRepo struct {
	db *DB
}

// NewMedicationRepo creates a new medication repository.
func NewMedicationRepo(db *DB) *MedicationRepo {
	return &MedicationRepo{db: db}
}

// Add inserts a medication for userID. A zero userID leaves it unowned.
func (r *MedicationRepo) Add(ctx context.Context, userID int64, name, dosage string) (*model.Medication, error) {
	res, err := execContext(ctx, r.db.x,
		`INSERT INTO medication (name, dosage, user_id) VALUES (?, ?, ?)`,
		name, dosage, nullableID(userID))
	if err != nil {
		return nil, writeError("add medication", err, reference{"user", userID})
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("add medication", err)
	}
	return &model.Medication{ID: id, Name: name, Dosage: dosage, UserID: userID}, nil
}

// List returns every medication ordered by ID.
func (r *MedicationRepo) List(ctx context.Context) ([]*model.Medication, error) {
	return r.find(ctx, "view medications", &where{})
}

// Find returns medications matching every supplied field of f.
// An empty filter returns every medication.
func (r *MedicationRepo) Find(ctx context.Context, f model.MedicationFilter) ([]*model.Medication, error) {
	w := &where{}
	if f.Name != nil {
		w.eq("name", *f.Name)
	}
	if f.UserID != nil {
		w.eq("user_id", *f.UserID)
	}
	return r.find(ctx, "find medications", w)
}

func (r *MedicationRepo) find(ctx context.Context, op string, w *where) ([]*model.Medication, error) {
	rows, err := selectRows[medicationRow](ctx, r.db.x,
		`SELECT `+medicationColumns+` FROM medication`+w.sql()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, translate(op, err)
	}

	meds := make([]*model.Medication, 0, len(rows))
	for _, row := range rows {
		meds = append(meds, row.model())
	}
	return meds, nil
}

// Update changes the fields set in p and returns the number of rows changed.
// An empty patch is rejected; a missing ID changes nothing.
func (r *MedicationRepo) Update(ctx context.Context, id int64, p model.MedicationPatch) (int64, error) {
	if p.IsEmpty() {
		return 0, errors.NewUserError("nothing to update", "").Because(errors.ErrNothingToUpdate)
	}

	set := &setList{}
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Dosage != nil {
		set.add("dosage", *p.Dosage)
	}

	res, err := execContext(ctx, r.db.x,
		`UPDATE medication SET `+set.sql()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return 0, translate("update medication", err)
	}
	return res.RowsAffected()
}

// Delete removes a medication and its reminders.
func (r *MedicationRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := execContext(ctx, r.db.x, `DELETE FROM medication WHERE id = ?`, id)
	if err != nil {
		return 0, deleteError("delete medication", err, "medication", id)
	}
	return res.RowsAffected()
}
