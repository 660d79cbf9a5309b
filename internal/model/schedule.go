package model

import "time"

// Schedule is one planned dosing moment for a user.
type Schedule struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	Time   time.Time `json:"time"`
}

// ScheduleFilter selects schedules.
//
// UserID takes precedence: when it is set the time bounds are ignored.
// Otherwise Start and End bound the time inclusively, either may be omitted.
// An empty filter matches every schedule.
type ScheduleFilter struct {
	UserID *int64
	Start  *time.Time
	End    *time.Time
}
