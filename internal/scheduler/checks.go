package scheduler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/notify"
)

// ScheduleSource finds schedules.
type ScheduleSource interface {
	Find(ctx context.Context, f model.ScheduleFilter) ([]*model.Schedule, error)
}

// UserSource looks up users.
type UserSource interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

// DoseChecker announces each scheduled dose once when its time arrives.
type DoseChecker struct {
	schedules   ScheduleSource
	users       UserSource
	medications MedicationSource
	dispatcher  *notify.Dispatcher
	cursor      cursor
}

// NewDoseChecker creates a dose checker that considers schedules due from
// the minute of start onwards.
func NewDoseChecker(schedules ScheduleSource, users UserSource, medications MedicationSource,
	dispatcher *notify.Dispatcher, start time.Time) *DoseChecker {
	return &DoseChecker{
		schedules:   schedules,
		users:       users,
		medications: medications,
		dispatcher:  dispatcher,
		cursor:      newCursor(start),
	}
}

// Name returns the checker name used in logs.
func (c *DoseChecker) Name() string {
	return "doses"
}

// Check sends a notification for every schedule due since the previous
// check and returns how many were sent.
func (c *DoseChecker) Check(ctx context.Context, now time.Time) (int, error) {
	from, to, _, ok := c.cursor.window(now)
	if !ok {
		return 0, nil
	}

	// Schedule ranges are inclusive, the window excludes from.
	start := from.Add(time.Minute)
	due, err := c.schedules.Find(ctx, model.ScheduleFilter{Start: &start, End: &to})
	if err != nil {
		return 0, err
	}
	c.cursor.advance(to)

	for _, s := range due {
		c.dispatcher.SendNotification(ctx, c.doseNotification(ctx, s))
	}
	return len(due), nil
}

func (c *DoseChecker) doseNotification(ctx context.Context, s *model.Schedule) *model.Notification {
	log := logging.FromContext(ctx)

	who := itoa(s.UserID)
	if u, err := c.users.Get(ctx, s.UserID); err == nil {
		who = u.Name
	} else {
		log.Debugw("user lookup failed", "user_id", s.UserID, logging.KeyError, err)
	}

	n := model.NewNotification(model.NotifyDoseDue, "Dose due",
		"Time to take your medication", s.Time).
		WithField("user", who)

	meds, err := c.medications.Find(ctx, model.MedicationFilter{UserID: &s.UserID})
	if err != nil {
		log.Debugw("medication lookup failed", "user_id", s.UserID, logging.KeyError, err)
		return n
	}
	if len(meds) > 0 {
		labels := make([]string, 0, len(meds))
		for _, m := range meds {
			labels = append(labels, medicationLabel(m))
		}
		n.WithField("medications", strings.Join(labels, "; "))
	}
	return n
}

func medicationLabel(m *model.Medication) string {
	if m.Dosage == "" {
		return m.Name
	}
	return m.Name + " " + m.Dosage
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
