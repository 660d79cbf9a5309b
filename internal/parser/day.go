package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/medtrack/internal/model"
)

// DayRange is a whole calendar day, [Start, End], in naive wall-clock time.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Label renders the day as YYYY-MM-DD.
func (d DayRange) Label() string {
	return d.Start.Format(model.DayLayout)
}

// ParseDay resolves input to a calendar day relative to now.
// Blank input means today. A plain YYYY-MM-DD date is tried first, then
// natural language such as "tomorrow" or "next monday".
func ParseDay(input string, now time.Time) (DayRange, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return dayOf(now), nil
	}

	if t, err := time.ParseInLocation(model.DayLayout, trimmed, time.UTC); err == nil {
		return dayOf(t), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	if now.Location() == time.UTC {
		// A naive clock reading; let dateparser see it as local wall time.
		cfg.CurrentTime = time.Date(now.Year(), now.Month(), now.Day(),
			now.Hour(), now.Minute(), now.Second(), 0, time.Local)
	}
	result, err := dateparser.Parse(cfg, trimmed)
	if err != nil || result.Time.IsZero() {
		return DayRange{}, NewDayError(trimmed)
	}
	return dayOf(result.Time.In(time.Local)), nil
}

func dayOf(t time.Time) DayRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Minute)
	return DayRange{Start: start, End: end}
}
