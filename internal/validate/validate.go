// Package validate provides input validation helpers for medtrack records.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/medtrack/internal/errors"
)

const (
	// MaxNameLength is the maximum length for a user or medication name.
	MaxNameLength = 128
	// MaxDosageLength is the maximum length for a dosage description.
	MaxDosageLength = 64
	// MaxMessageLength is the maximum length for a reminder message.
	MaxMessageLength = 1024
)

// Name validates a user or medication name.
func Name(field, name string) error {
	if err := NonEmpty(field, name); err != nil {
		return err
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField(field, TruncateString(name, 20),
			field+" too long",
			"Names must be 128 characters or fewer")
	}
	return nil
}

// Dosage validates a free-text dosage such as "100mg" or "2 tablets".
// An empty dosage is allowed.
func Dosage(dosage string) error {
	if utf8.RuneCountInString(dosage) > MaxDosageLength {
		return errors.NewUserErrorWithField("dosage", TruncateString(dosage, 20),
			"dosage too long",
			"Dosages must be 64 characters or fewer")
	}
	return nil
}

// Message validates a reminder message. An empty message is allowed.
func Message(msg string) error {
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return errors.NewUserError(
			"message too long",
			"Reminder messages must be 1024 characters or fewer")
	}
	return nil
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}
