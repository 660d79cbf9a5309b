package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/medtrack/internal/errors"
)

// TimeParseError represents a time parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	Err        error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// TimestampExamples provides example timestamp formats.
var TimestampExamples = []string{
	"2024-12-25 09:00",
	"2025-01-01 21:30",
}

// DayExamples provides example day expressions.
var DayExamples = []string{
	"today",
	"tomorrow",
	"next monday",
	"2024-12-25",
}

// NewTimestampError creates a timestamp parse error with standard examples.
func NewTimestampError(field, input string) *TimeParseError {
	if field == "" {
		field = "timestamp"
	}
	return &TimeParseError{
		Input:      input,
		Field:      field,
		Message:    "expected YYYY-MM-DD HH:MM",
		Examples:   TimestampExamples,
		Suggestion: errors.Suggestions[errors.ErrInvalidTimestamp],
		Err:        errors.ErrInvalidTimestamp,
	}
}

// NewDayError creates a day parse error with standard examples.
func NewDayError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "day",
		Message:    "could not parse day",
		Examples:   DayExamples,
		Suggestion: errors.Suggestions[errors.ErrInvalidDay],
		Err:        errors.ErrInvalidDay,
	}
}

// ToUserError converts a TimeParseError to a UserError for consistent handling.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 && suggestion == "" {
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}

	return errors.NewUserErrorWithField(e.Field, e.Input, "invalid "+e.Field, suggestion).Because(e.Err)
}
