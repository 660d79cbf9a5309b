package model

import "time"

// Reminder is a timestamped message attached to a medication. It is
// independent of any schedule.
type Reminder struct {
	ID           int64     `json:"id"`
	MedicationID int64     `json:"medication_id"`
	Time         time.Time `json:"time"`
	Message      string    `json:"message"`
}

// ReminderPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type ReminderPatch struct {
	Time    *time.Time
	Message *string
}

// IsEmpty returns true if the patch changes nothing.
func (p ReminderPatch) IsEmpty() bool {
	return p.Time == nil && p.Message == nil
}

// ReminderFilter selects reminders. Unlike the other filters, an empty
// ReminderFilter is rejected rather than matching everything.
type ReminderFilter struct {
	MedicationID *int64
	Time         *time.Time
}

// IsEmpty returns true if no criterion is set.
func (f ReminderFilter) IsEmpty() bool {
	return f.MedicationID == nil && f.Time == nil
}
