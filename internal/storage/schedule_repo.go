package storage

import (
	"context"
	"time"

	"github.com/manav03panchal/medtrack/internal/model"
)

const scheduleColumns = `id, user_id, time`

// ScheduleRepo provides operations for Schedule entities.
type ScheduleRepo struct {
	db *DB
}

// NewScheduleRepo creates a new schedule repository.
func NewScheduleRepo(db *DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Add inserts a schedule for userID at the given minute.
func (r *ScheduleRepo) Add(ctx context.Context, userID int64, at time.Time) (*model.Schedule, error) {
	stamp := model.FormatMinute(at)
	res, err := execContext(ctx, r.db.x,
		`INSERT INTO schedule (user_id, time) VALUES (?, ?)`, userID, stamp)
	if err != nil {
		return nil, writeError("add schedule", err, reference{"user", userID})
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("add schedule", err)
	}

	stored, _ := model.ParseMinute(stamp)
	return &model.Schedule{ID: id, UserID: userID, Time: stored}, nil
}

// Update moves a schedule to a new time.
func (r *ScheduleRepo) Update(ctx context.Context, id int64, at time.Time) (int64, error) {
	res, err := execContext(ctx, r.db.x,
		`UPDATE schedule SET time = ? WHERE id = ?`, model.FormatMinute(at), id)
	if err != nil {
		return 0, translate("update schedule", err)
	}
	return res.RowsAffected()
}

// Delete removes a schedule.
func (r *ScheduleRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := execContext(ctx, r.db.x, `DELETE FROM schedule WHERE id = ?`, id)
	if err != nil {
		return 0, deleteError("delete schedule", err, "schedule", id)
	}
	return res.RowsAffected()
}

// List returns every schedule ordered by ID.
func (r *ScheduleRepo) List(ctx context.Context) ([]*model.Schedule, error) {
	return r.find(ctx, "view schedules", &where{}, "id")
}

// Find returns schedules matching f, ordered by time.
// When UserID is set the time bounds are ignored.
func (r *ScheduleRepo) Find(ctx context.Context, f model.ScheduleFilter) ([]*model.Schedule, error) {
	w := &where{}
	switch {
	case f.UserID != nil:
		w.eq("user_id", *f.UserID)
	case f.Start != nil && f.End != nil:
		w.between("time", model.FormatMinute(*f.Start), model.FormatMinute(*f.End))
	case f.Start != nil:
		w.gte("time", model.FormatMinute(*f.Start))
	case f.End != nil:
		w.lte("time", model.FormatMinute(*f.End))
	}
	return r.find(ctx, "find schedules", w, "time, id")
}

func (r *ScheduleRepo) find(ctx context.Context, op string, w *where, order string) ([]*model.Schedule, error) {
	rows, err := selectRows[scheduleRow](ctx, r.db.x,
		`SELECT `+scheduleColumns+` FROM schedule`+w.sql()+` ORDER BY `+order, w.args...)
	if err != nil {
		return nil, translate(op, err)
	}

	schedules, err := convertRows(rows, scheduleRow.model)
	if err != nil {
		return nil, translate(op, err)
	}
	return schedules, nil
}
