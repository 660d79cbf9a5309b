package output

import (
	"github.com/manav03panchal/medtrack/internal/model"
)

// The methods below pick the CLI or JSON renderer from f.Format so callers
// do not switch on it themselves.

// Users renders a user listing.
func (f *Formatter) Users(users []*model.User) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintUsers(users)
	}
	NewCLIFormatter(f).PrintUsers(users)
	return nil
}

// Medications renders a medication listing.
func (f *Formatter) Medications(meds []*model.Medication) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintMedications(meds)
	}
	NewCLIFormatter(f).PrintMedications(meds)
	return nil
}

// Schedules renders a schedule listing.
func (f *Formatter) Schedules(schedules []*model.Schedule) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintSchedules(schedules)
	}
	NewCLIFormatter(f).PrintSchedules(schedules)
	return nil
}

// Reminders renders a reminder listing.
func (f *Formatter) Reminders(reminders []*model.Reminder) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintReminders(reminders)
	}
	NewCLIFormatter(f).PrintReminders(reminders)
	return nil
}

// Doses renders dosage history.
func (f *Formatter) Doses(entries []*model.DoseEntry) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintDoses(entries)
	}
	NewCLIFormatter(f).PrintDoses(entries)
	return nil
}

// Agenda renders a day's agenda.
func (f *Formatter) Agenda(a *model.Agenda) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintAgenda(a)
	}
	NewCLIFormatter(f).PrintAgenda(a)
	return nil
}

// Change renders the outcome of an update or delete.
func (f *Formatter) Change(verb, entity string, id, rows int64) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintChange(verb, entity, id, rows)
	}
	NewCLIFormatter(f).PrintChange(verb, entity, id, rows)
	return nil
}

// Created renders a newly created record. summary is the CLI message.
func (f *Formatter) Created(entity string, record interface{}, summary string) error {
	if f.Format == FormatJSON {
		return NewJSONFormatter(f).PrintCreated(entity, record)
	}
	NewCLIFormatter(f).Success(summary)
	return nil
}
