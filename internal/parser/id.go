package parser

import (
	"strconv"
	"strings"

	"github.com/manav03panchal/medtrack/internal/errors"
)

// ParseID parses a positive integer identifier.
func ParseID(field, input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewUserErrorWithField(field, trimmed, "invalid "+field,
			"").Because(errors.ErrInvalidID)
	}
	return id, nil
}

// ParseOptionalID returns nil for blank input.
func ParseOptionalID(field, input string) (*int64, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	id, err := ParseID(field, input)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// OptionalString returns nil for blank input and the trimmed text otherwise.
func OptionalString(input string) *string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
