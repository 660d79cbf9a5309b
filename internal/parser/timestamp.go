// Package parser turns raw user input into typed values.
package parser

import (
	"strings"
	"time"

	"github.com/manav03panchal/medtrack/internal/model"
)

// ParseTimestamp parses "YYYY-MM-DD HH:MM" as naive wall-clock time, so the
// value stored is always the value typed, DST gaps included.
// Surrounding whitespace is ignored. Anything else, including seconds or
// an ISO "T" separator, is rejected with a *TimeParseError.
func ParseTimestamp(field, input string) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, NewTimestampError(field, input)
	}

	t, err := model.ParseMinute(trimmed)
	if err != nil {
		return time.Time{}, NewTimestampError(field, trimmed)
	}
	return t, nil
}

// ParseOptionalTimestamp is ParseTimestamp for optional fields.
// Blank input yields nil, meaning "not provided".
func ParseOptionalTimestamp(field, input string) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(field, input)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
