package storage

import (
	"context"
	"time"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
)

const reminderColumns = `id, medication_id, time, message`

// ReminderRepo provides operations for Reminder entities.
type ReminderRepo struct {
	db *DB
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(db *DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Add inserts a reminder for a medication.
func (r *ReminderRepo) Add(ctx context.Context, medicationID int64, at time.Time, message string) (*model.Reminder, error) {
	stamp := model.FormatMinute(at)
	res, err := execContext(ctx, r.db.x,
		`INSERT INTO reminder (medication_id, time, message) VALUES (?, ?, ?)`,
		medicationID, stamp, message)
	if err != nil {
		return nil, writeError("add reminder", err, reference{"medication", medicationID})
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("add reminder", err)
	}

	stored, _ := model.ParseMinute(stamp)
	return &model.Reminder{ID: id, MedicationID: medicationID, Time: stored, Message: message}, nil
}

// Update changes the fields set in p. An empty patch is rejected.
func (r *ReminderRepo) Update(ctx context.Context, id int64, p model.ReminderPatch) (int64, error) {
	if p.IsEmpty() {
		return 0, errors.NewUserError("nothing to update", "").Because(errors.ErrNothingToUpdate)
	}

	set := &setList{}
	if p.Time != nil {
		set.add("time", model.FormatMinute(*p.Time))
	}
	if p.Message != nil {
		set.add("message", *p.Message)
	}

	res, err := execContext(ctx, r.db.x,
		`UPDATE reminder SET `+set.sql()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return 0, translate("update reminder", err)
	}
	return res.RowsAffected()
}

// Delete removes a reminder.
func (r *ReminderRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := execContext(ctx, r.db.x, `DELETE FROM reminder WHERE id = ?`, id)
	if err != nil {
		return 0, deleteError("delete reminder", err, "reminder", id)
	}
	return res.RowsAffected()
}

// List returns every reminder ordered by ID.
func (r *ReminderRepo) List(ctx context.Context) ([]*model.Reminder, error) {
	return r.find(ctx, "view reminders", &where{}, "id")
}

// Find returns reminders matching every supplied field of f.
// At least one field must be set.
func (r *ReminderRepo) Find(ctx context.Context, f model.ReminderFilter) ([]*model.Reminder, error) {
	if f.IsEmpty() {
		return nil, errors.NewUserError("provide at least one search criterion", "").
			Because(errors.ErrNoCriteria)
	}

	w := &where{}
	if f.MedicationID != nil {
		w.eq("medication_id", *f.MedicationID)
	}
	if f.Time != nil {
		w.eq("time", model.FormatMinute(*f.Time))
	}
	return r.find(ctx, "find reminders", w, "id")
}

// Between returns reminders due after after and at or before upTo, ordered
// by time.
func (r *ReminderRepo) Between(ctx context.Context, after, upTo time.Time) ([]*model.Reminder, error) {
	w := (&where{}).
		gt("time", model.FormatMinute(after)).
		lte("time", model.FormatMinute(upTo))
	return r.find(ctx, "list due reminders", w, "time, id")
}

func (r *ReminderRepo) find(ctx context.Context, op string, w *where, order string) ([]*model.Reminder, error) {
	rows, err := selectRows[reminderRow](ctx, r.db.x,
		`SELECT `+reminderColumns+` FROM reminder`+w.sql()+` ORDER BY `+order, w.args...)
	if err != nil {
		return nil, translate(op, err)
	}

	reminders, err := convertRows(rows, reminderRow.model)
	if err != nil {
		return nil, translate(op, err)
	}
	return reminders, nil
}
