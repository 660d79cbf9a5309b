package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrInvalidTimestamp:    "Use the format 'YYYY-MM-DD HH:MM', for example '2024-12-25 09:00'.",
	ErrInvalidDay:          "Try 'today', 'tomorrow', 'next monday' or '2024-12-25'.",
	ErrInvalidID:           "Identifiers are positive whole numbers. Use a list command to see them.",
	ErrInvalidChoice:       "Enter one of the numbers shown in the menu.",
	ErrNoCriteria:          "Provide a medication ID, a time, or both.",
	ErrNothingToUpdate:     "Provide at least one field to change.",
	ErrUserNotFound:        "Use 'medtrack user list' to see existing users.",
	ErrMissingReference:    "Create the user or medication first, then reference its ID.",
	ErrReferencedByHistory: "Dosage history is permanent; records it refers to cannot be deleted.",
	ErrInvalidConfig:       "Check MEDTRACK_* environment variables and command flags.",

	// System errors
	ErrDiskFull:          "Free up disk space and try again.",
	ErrDatabaseCorrupted: "Restore the database file from a backup or point --db at a new file.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/medtrack/).",
	ErrTerminalRequired:  "Run this command from an interactive terminal, or use 'medtrack agenda'.",
}

// GetSuggestion returns a suggestion for an error, if available.
// A suggestion set on a UserError wins over the sentinel table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
