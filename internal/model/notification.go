package model

import (
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyReminder NotificationType = "reminder"
	NotifyDoseDue  NotificationType = "dose_due"
	NotifySummary  NotificationType = "summary"
	NotifyTest     NotificationType = "test"
)

// Notification is a message the watcher emits when something comes due.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewNotification creates a new notification stamped at at.
func NewNotification(t NotificationType, title, message string, at time.Time) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: at,
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// TypeLabel returns a human-readable label for the notification type.
func (n *Notification) TypeLabel() string {
	switch n.Type {
	case NotifyReminder:
		return "Reminder"
	case NotifyDoseDue:
		return "Dose due"
	case NotifySummary:
		return "Daily summary"
	case NotifyTest:
		return "Test"
	default:
		return "Notification"
	}
}
