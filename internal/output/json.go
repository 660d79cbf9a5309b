package output

import (
	"github.com/manav03panchal/medtrack/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ScheduleOutput represents a schedule in JSON output.
type ScheduleOutput struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Time   string `json:"time"`
}

// ReminderOutput represents a reminder in JSON output.
type ReminderOutput struct {
	ID           int64  `json:"id"`
	MedicationID int64  `json:"medication_id"`
	Time         string `json:"time"`
	Message      string `json:"message"`
}

// DoseOutput represents a dosage history entry in JSON output.
type DoseOutput struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	MedicationID int64  `json:"medication_id"`
	TimeTaken    string `json:"time_taken"`
}

// AgendaItemOutput represents an agenda item in JSON output.
type AgendaItemOutput struct {
	Time    string `json:"time"`
	Kind    string `json:"kind"`
	ID      int64  `json:"id"`
	Who     string `json:"who,omitempty"`
	What    string `json:"what,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps any listing.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// AgendaResponse represents the agenda output in JSON.
type AgendaResponse struct {
	Day   string             `json:"day"`
	Items []AgendaItemOutput `json:"items"`
	Count int                `json:"count"`
}

// ChangeResponse reports an update or delete.
type ChangeResponse struct {
	Status string `json:"status"`
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Rows   int64  `json:"rows"`
}

// CreatedResponse reports a newly created record.
type CreatedResponse struct {
	Status string      `json:"status"`
	Entity string      `json:"entity"`
	Record interface{} `json:"record"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion,omitempty"`
}

func list[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// NewScheduleOutput creates a ScheduleOutput from a Schedule.
func NewScheduleOutput(s *model.Schedule) ScheduleOutput {
	return ScheduleOutput{ID: s.ID, UserID: s.UserID, Time: FormatTimeShort(s.Time)}
}

// NewReminderOutput creates a ReminderOutput from a Reminder.
func NewReminderOutput(r *model.Reminder) ReminderOutput {
	return ReminderOutput{ID: r.ID, MedicationID: r.MedicationID, Time: FormatTimeShort(r.Time), Message: r.Message}
}

// NewDoseOutput creates a DoseOutput from a DoseEntry.
func NewDoseOutput(e *model.DoseEntry) DoseOutput {
	return DoseOutput{ID: e.ID, UserID: e.UserID, MedicationID: e.MedicationID, TimeTaken: FormatTime(e.TimeTaken)}
}

// PrintUsers outputs users as JSON.
func (j *JSONFormatter) PrintUsers(users []*model.User) error {
	return j.JSON(list(users))
}

// PrintMedications outputs medications as JSON.
func (j *JSONFormatter) PrintMedications(meds []*model.Medication) error {
	return j.JSON(list(meds))
}

// PrintSchedules outputs schedules as JSON.
func (j *JSONFormatter) PrintSchedules(schedules []*model.Schedule) error {
	out := make([]ScheduleOutput, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, NewScheduleOutput(s))
	}
	return j.JSON(list(out))
}

// PrintReminders outputs reminders as JSON.
func (j *JSONFormatter) PrintReminders(reminders []*model.Reminder) error {
	out := make([]ReminderOutput, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, NewReminderOutput(r))
	}
	return j.JSON(list(out))
}

// PrintDoses outputs dosage history as JSON.
func (j *JSONFormatter) PrintDoses(entries []*model.DoseEntry) error {
	out := make([]DoseOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewDoseOutput(e))
	}
	return j.JSON(list(out))
}

// PrintAgenda outputs a day's agenda as JSON.
func (j *JSONFormatter) PrintAgenda(a *model.Agenda) error {
	items := make([]AgendaItemOutput, 0, len(a.Items))
	for _, item := range a.Items {
		items = append(items, AgendaItemOutput{
			Time:    FormatTimeShort(item.Time),
			Kind:    string(item.Kind),
			ID:      item.ID,
			Who:     item.Who,
			What:    item.What,
			Message: item.Message,
		})
	}
	return j.JSON(AgendaResponse{Day: FormatDate(a.Day), Items: items, Count: len(items)})
}

// PrintChange outputs the outcome of an update or delete.
func (j *JSONFormatter) PrintChange(verb, entity string, id, rows int64) error {
	status := verb
	if rows == 0 {
		status = "not_found"
	}
	return j.JSON(ChangeResponse{Status: status, Entity: entity, ID: id, Rows: rows})
}

// PrintCreated outputs a newly created record.
func (j *JSONFormatter) PrintCreated(entity string, record interface{}) error {
	switch r := record.(type) {
	case *model.Schedule:
		record = NewScheduleOutput(r)
	case *model.Reminder:
		record = NewReminderOutput(r)
	case *model.DoseEntry:
		record = NewDoseOutput(r)
	}
	return j.JSON(CreatedResponse{Status: "created", Entity: entity, Record: record})
}

// PrintError outputs an error as JSON.
func (j *JSONFormatter) PrintError(message, category, suggestion string) error {
	return j.JSON(ErrorResponse{Status: "error", Error: message, Category: category, Suggestion: suggestion})
}
