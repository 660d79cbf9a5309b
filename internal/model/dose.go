package model

import "time"

// DoseEntry records that a user took a medication. Entries are never
// modified or removed once written.
type DoseEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	MedicationID int64     `json:"medication_id"`
	TimeTaken    time.Time `json:"time_taken"`
}
