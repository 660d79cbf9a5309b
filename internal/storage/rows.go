package storage

import (
	"database/sql"
	"fmt"

	"github.com/manav03panchal/medtrack/internal/model"
)

// Row types mirror the tables. Timestamps are stored as TEXT and converted
// at this boundary.

type medicationRow struct {
	ID     int64         `db:"id"`
	Name   string        `db:"name"`
	Dosage string        `db:"dosage"`
	UserID sql.NullInt64 `db:"user_id"`
}

func (r medicationRow) model() *model.Medication {
	return &model.Medication{
		ID:     r.ID,
		Name:   r.Name,
		Dosage: r.Dosage,
		UserID: r.UserID.Int64,
	}
}

type scheduleRow struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Time   string `db:"time"`
}

func (r scheduleRow) model() (*model.Schedule, error) {
	t, err := model.ParseMinute(r.Time)
	if err != nil {
		return nil, fmt.Errorf("schedule %d has malformed time %q: %w", r.ID, r.Time, err)
	}
	return &model.Schedule{ID: r.ID, UserID: r.UserID, Time: t}, nil
}

type reminderRow struct {
	ID           int64          `db:"id"`
	MedicationID int64          `db:"medication_id"`
	Time         string         `db:"time"`
	Message      sql.NullString `db:"message"`
}

func (r reminderRow) model() (*model.Reminder, error) {
	t, err := model.ParseMinute(r.Time)
	if err != nil {
		return nil, fmt.Errorf("reminder %d has malformed time %q: %w", r.ID, r.Time, err)
	}
	return &model.Reminder{
		ID:           r.ID,
		MedicationID: r.MedicationID,
		Time:         t,
		Message:      r.Message.String,
	}, nil
}

type doseRow struct {
	ID           int64  `db:"id"`
	UserID       int64  `db:"user_id"`
	MedicationID int64  `db:"medication_id"`
	TimeTaken    string `db:"time_taken"`
}

func (r doseRow) model() (*model.DoseEntry, error) {
	t, err := model.ParseSecond(r.TimeTaken)
	if err != nil {
		return nil, fmt.Errorf("dosage entry %d has malformed time %q: %w", r.ID, r.TimeTaken, err)
	}
	return &model.DoseEntry{
		ID:           r.ID,
		UserID:       r.UserID,
		MedicationID: r.MedicationID,
		TimeTaken:    t,
	}, nil
}

// convertRows maps rows to models, stopping at the first malformed row.
func convertRows[R any, M any](rows []R, conv func(R) (M, error)) ([]M, error) {
	out := make([]M, 0, len(rows))
	for _, row := range rows {
		m, err := conv(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// nullableID stores zero as NULL.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
