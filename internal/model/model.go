// Package model defines the domain models for medtrack.
package model

import "time"

// Timestamp layouts used for storage and display. Stored values carry no
// timezone. They are naive wall-clock times, held in memory as UTC so that
// no local DST rule can move them.
const (
	// MinuteLayout is the format of schedule and reminder times.
	MinuteLayout = "2006-01-02 15:04"
	// SecondLayout is the format of dosage history times.
	SecondLayout = "2006-01-02 15:04:05"
	// DayLayout is the format of a calendar day.
	DayLayout = "2006-01-02"
)

// FormatMinute renders t in MinuteLayout.
func FormatMinute(t time.Time) string {
	return t.Format(MinuteLayout)
}

// ParseMinute parses a MinuteLayout value as naive wall-clock time.
func ParseMinute(s string) (time.Time, error) {
	return time.ParseInLocation(MinuteLayout, s, time.UTC)
}

// FormatSecond renders t in SecondLayout.
func FormatSecond(t time.Time) string {
	return t.Format(SecondLayout)
}

// ParseSecond parses a SecondLayout value as naive wall-clock time.
func ParseSecond(s string) (time.Time, error) {
	return time.ParseInLocation(SecondLayout, s, time.UTC)
}

// WallClock returns the wall-clock reading of t in its own zone as a naive
// time comparable with stored values.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
