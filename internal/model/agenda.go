package model

import (
	"sort"
	"time"
)

// AgendaKind tells what put an item on the agenda.
type AgendaKind string

const (
	AgendaDose     AgendaKind = "dose"
	AgendaReminder AgendaKind = "reminder"
)

// AgendaItem is one scheduled dose or reminder on a day.
type AgendaItem struct {
	Time time.Time
	Kind AgendaKind
	ID   int64
	// Who is the user name for doses. For reminders it is the owner of the
	// medication, if known.
	Who string
	// What is the medication for reminders, empty for doses.
	What    string
	Message string
}

// Agenda is everything due on one calendar day, in time order.
type Agenda struct {
	Day   time.Time
	Items []AgendaItem
}

// BuildAgenda merges schedules and reminders into time order. Lookups that
// miss leave the label empty.
func BuildAgenda(day time.Time, schedules []*Schedule, reminders []*Reminder,
	users map[int64]*User, meds map[int64]*Medication) *Agenda {
	a := &Agenda{Day: day, Items: make([]AgendaItem, 0, len(schedules)+len(reminders))}

	for _, s := range schedules {
		item := AgendaItem{Time: s.Time, Kind: AgendaDose, ID: s.ID}
		if u, ok := users[s.UserID]; ok {
			item.Who = u.Name
		}
		a.Items = append(a.Items, item)
	}

	for _, r := range reminders {
		item := AgendaItem{Time: r.Time, Kind: AgendaReminder, ID: r.ID, Message: r.Message}
		if m, ok := meds[r.MedicationID]; ok {
			item.What = m.Name
			if m.Dosage != "" {
				item.What += " " + m.Dosage
			}
			if u, ok := users[m.UserID]; ok {
				item.Who = u.Name
			}
		}
		a.Items = append(a.Items, item)
	}

	sort.SliceStable(a.Items, func(i, j int) bool {
		return a.Items[i].Time.Before(a.Items[j].Time)
	})
	return a
}

// Upcoming returns the items at or after now.
func (a *Agenda) Upcoming(now time.Time) []AgendaItem {
	for i, item := range a.Items {
		if !item.Time.Before(now) {
			return a.Items[i:]
		}
	}
	return nil
}
