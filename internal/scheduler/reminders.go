package scheduler

import (
	"context"
	"time"

	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/notify"
)

// ReminderSource lists reminders due in a window.
type ReminderSource interface {
	Between(ctx context.Context, after, upTo time.Time) ([]*model.Reminder, error)
}

// MedicationSource lists medications.
type MedicationSource interface {
	List(ctx context.Context) ([]*model.Medication, error)
	Find(ctx context.Context, f model.MedicationFilter) ([]*model.Medication, error)
}

// ReminderChecker announces each reminder once when its time arrives.
type ReminderChecker struct {
	reminders   ReminderSource
	medications MedicationSource
	dispatcher  *notify.Dispatcher
	cursor      cursor
}

// NewReminderChecker creates a reminder checker that considers reminders
// due from the minute of start onwards.
func NewReminderChecker(reminders ReminderSource, medications MedicationSource,
	dispatcher *notify.Dispatcher, start time.Time) *ReminderChecker {
	return &ReminderChecker{
		reminders:   reminders,
		medications: medications,
		dispatcher:  dispatcher,
		cursor:      newCursor(start),
	}
}

// Name returns the checker name used in logs.
func (c *ReminderChecker) Name() string {
	return "reminders"
}

// Check sends a notification for every reminder due since the previous
// check and returns how many were sent. On error nothing is marked as seen
// and the same window is retried on the next tick.
func (c *ReminderChecker) Check(ctx context.Context, now time.Time) (int, error) {
	from, to, skipped, ok := c.cursor.window(now)
	if !ok {
		return 0, nil
	}
	if skipped {
		logging.FromContext(ctx).Warnw("skipping stale reminders after a long pause",
			"from", model.FormatMinute(c.cursor.last), "to", model.FormatMinute(from))
	}

	due, err := c.reminders.Between(ctx, from, to)
	if err != nil {
		return 0, err
	}
	c.cursor.advance(to)
	if len(due) == 0 {
		return 0, nil
	}

	meds, err := c.medicationNames(ctx)
	if err != nil {
		// Still announce, just without names.
		logging.FromContext(ctx).Warnw("medication names unavailable", logging.KeyError, err)
	}

	for _, r := range due {
		n := reminderNotification(r, meds[r.MedicationID])
		logging.FromContext(ctx).Debugw("reminder due", logging.KeyReminderID, r.ID)
		c.dispatcher.SendNotification(ctx, n)
	}
	return len(due), nil
}

func (c *ReminderChecker) medicationNames(ctx context.Context) (map[int64]*model.Medication, error) {
	meds, err := c.medications.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Medication, len(meds))
	for _, m := range meds {
		byID[m.ID] = m
	}
	return byID, nil
}

func reminderNotification(r *model.Reminder, med *model.Medication) *model.Notification {
	message := r.Message
	if message == "" {
		message = "Time for your medication"
	}

	n := model.NewNotification(model.NotifyReminder, "Reminder", message, r.Time).
		WithField("reminder", itoa(r.ID))
	if med != nil {
		n.WithField("medication", medicationLabel(med))
	} else {
		n.WithField("medication", itoa(r.MedicationID))
	}
	return n
}
