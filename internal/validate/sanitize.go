package validate

import (
	"strings"
	"unicode"
)

// SanitizeName trims a name and removes control characters.
func SanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return strings.TrimSpace(sb.String())
}

// SanitizeMessage cleans a reminder message for storage.
func SanitizeMessage(msg string) string {
	msg = strings.TrimSpace(msg)

	// Remove null bytes
	msg = strings.ReplaceAll(msg, "\x00", "")

	// Normalize line endings
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")

	return strings.TrimSpace(StripControlChars(msg))
}

// StripControlChars removes all control characters from a string.
func StripControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
