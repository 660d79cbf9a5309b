package model

// Medication is a drug and free-text dosage owned by a user.
type Medication struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	// UserID is zero when the medication has no owner.
	UserID int64 `json:"user_id,omitempty"`
}

// MedicationPatch carries the fields of a partial update. Nil fields are left
// unchanged; a non-nil pointer to "" sets the field to the empty string.
type MedicationPatch struct {
	Name   *string
	Dosage *string
}

// IsEmpty returns true if the patch changes nothing.
func (p MedicationPatch) IsEmpty() bool {
	return p.Name == nil && p.Dosage == nil
}

// MedicationFilter selects medications. Supplied fields are combined with AND;
// an empty filter matches every medication.
type MedicationFilter struct {
	Name   *string
	UserID *int64
}
