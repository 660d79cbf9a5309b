package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/validate"
)

type menuItem struct {
	number int
	label  string
	run    func(s *Shell, ctx context.Context) error
}

var menu = []menuItem{
	{1, "Add user", (*Shell).addUser},
	{2, "View users", (*Shell).viewUsers},
	{3, "Delete user", (*Shell).deleteUser},
	{4, "Add medication", (*Shell).addMedication},
	{5, "Update medication", (*Shell).updateMedication},
	{6, "Find medications", (*Shell).findMedications},
	{7, "Delete medication", (*Shell).deleteMedication},
	{8, "View medications", (*Shell).viewMedications},
	{9, "Add schedule", (*Shell).addSchedule},
	{10, "Update schedule", (*Shell).updateSchedule},
	{11, "Find schedules", (*Shell).findSchedules},
	{12, "Delete schedule", (*Shell).deleteSchedule},
	{13, "View schedules", (*Shell).viewSchedules},
	{14, "Add reminder", (*Shell).addReminder},
	{15, "Update reminder", (*Shell).updateReminder},
	{16, "Find reminders", (*Shell).findReminders},
	{17, "Delete reminder", (*Shell).deleteReminder},
	{18, "View reminders", (*Shell).viewReminders},
	{19, "Record dosage", (*Shell).recordDose},
	{20, "View dosage history", (*Shell).viewDoses},
}

const menuColumns = 3

func (s *Shell) printMenu() {
	cli := output.NewCLIFormatter(&output.Formatter{
		Writer:    s.prompt,
		Format:    output.FormatCLI,
		ColorMode: s.out.ColorMode,
	})

	fmt.Fprintln(s.prompt)
	cli.Title("Medication Tracker")

	var sb strings.Builder
	for i, item := range menu {
		fmt.Fprintf(&sb, "%2d %-20s", item.number, item.label)
		if (i+1)%menuColumns == 0 || i == len(menu)-1 {
			fmt.Fprintln(s.prompt, strings.TrimRight(sb.String(), " "))
			sb.Reset()
		}
	}
	fmt.Fprintln(s.prompt, " 0 Exit")
}

// =============================================================================
// Users
// =============================================================================

func (s *Shell) addUser(ctx context.Context) error {
	line, err := s.ask("Name")
	if err != nil {
		return err
	}

	name := validate.SanitizeName(line)
	if err := validate.Name("name", name); err != nil {
		return err
	}

	u, err := s.stores.Users.Add(ctx, name)
	if err != nil {
		return err
	}
	return s.out.Created("user", u, fmt.Sprintf("Added user %d: %s", u.ID, u.Name))
}

func (s *Shell) viewUsers(ctx context.Context) error {
	users, err := s.stores.Users.List(ctx)
	if err != nil {
		return err
	}
	return s.out.Users(users)
}

func (s *Shell) deleteUser(ctx context.Context) error {
	id, err := s.askID("User ID")
	if err != nil {
		return err
	}
	rows, err := s.stores.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.out.Change("deleted", "user", id, rows)
}

// =============================================================================
// Medications
// =============================================================================

func (s *Shell) addMedication(ctx context.Context) error {
	in, err := s.askAll("User ID (optional)", "Name", "Dosage")
	if err != nil {
		return err
	}

	userID, err := parser.ParseOptionalID("user ID", in[0])
	if err != nil {
		return err
	}
	name := validate.SanitizeName(in[1])
	if err := validate.Name("name", name); err != nil {
		return err
	}
	dosage := validate.SanitizeName(in[2])
	if err := validate.Dosage(dosage); err != nil {
		return err
	}

	var owner int64
	if userID != nil {
		owner = *userID
	}
	m, err := s.stores.Medications.Add(ctx, owner, name, dosage)
	if err != nil {
		return err
	}
	return s.out.Created("medication", m,
		fmt.Sprintf("Added medication %d: %s %s", m.ID, m.Name, m.Dosage))
}

func (s *Shell) updateMedication(ctx context.Context) error {
	in, err := s.askAll("Medication ID", "New name (optional)", "New dosage (optional)")
	if err != nil {
		return err
	}

	id, err := parser.ParseID("medication ID", in[0])
	if err != nil {
		return err
	}
	var patch model.MedicationPatch
	if raw := parser.OptionalString(in[1]); raw != nil {
		name := validate.SanitizeName(*raw)
		if err := validate.Name("name", name); err != nil {
			return err
		}
		patch.Name = &name
	}
	if raw := parser.OptionalString(in[2]); raw != nil {
		dosage := validate.SanitizeName(*raw)
		if err := validate.Dosage(dosage); err != nil {
			return err
		}
		patch.Dosage = &dosage
	}

	rows, err := s.stores.Medications.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	return s.out.Change("updated", "medication", id, rows)
}

func (s *Shell) findMedications(ctx context.Context) error {
	in, err := s.askAll("Name (optional)", "User ID (optional)")
	if err != nil {
		return err
	}

	userID, err := parser.ParseOptionalID("user ID", in[1])
	if err != nil {
		return err
	}
	meds, err := s.stores.Medications.Find(ctx, model.MedicationFilter{
		Name:   parser.OptionalString(in[0]),
		UserID: userID,
	})
	if err != nil {
		return err
	}
	return s.out.Medications(meds)
}

func (s *Shell) deleteMedication(ctx context.Context) error {
	id, err := s.askID("Medication ID")
	if err != nil {
		return err
	}
	rows, err := s.stores.Medications.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.out.Change("deleted", "medication", id, rows)
}

func (s *Shell) viewMedications(ctx context.Context) error {
	meds, err := s.stores.Medications.List(ctx)
	if err != nil {
		return err
	}
	return s.out.Medications(meds)
}

// =============================================================================
// Schedules
// =============================================================================

func (s *Shell) addSchedule(ctx context.Context) error {
	in, err := s.askAll("User ID", "Time (YYYY-MM-DD HH:MM)")
	if err != nil {
		return err
	}

	userID, err := parser.ParseID("user ID", in[0])
	if err != nil {
		return err
	}
	at, err := parser.ParseTimestamp("time", in[1])
	if err != nil {
		return err
	}

	sc, err := s.stores.Schedules.Add(ctx, userID, at)
	if err != nil {
		return err
	}
	return s.out.Created("schedule", output.NewScheduleOutput(sc),
		fmt.Sprintf("Added schedule %d for user %d at %s", sc.ID, sc.UserID, output.FormatTimeShort(sc.Time)))
}

func (s *Shell) updateSchedule(ctx context.Context) error {
	in, err := s.askAll("Schedule ID", "New time (YYYY-MM-DD HH:MM)")
	if err != nil {
		return err
	}

	id, err := parser.ParseID("schedule ID", in[0])
	if err != nil {
		return err
	}
	at, err := parser.ParseTimestamp("time", in[1])
	if err != nil {
		return err
	}

	rows, err := s.stores.Schedules.Update(ctx, id, at)
	if err != nil {
		return err
	}
	return s.out.Change("updated", "schedule", id, rows)
}

func (s *Shell) findSchedules(ctx context.Context) error {
	in, err := s.askAll("User ID (optional)", "From (optional)", "To (optional)")
	if err != nil {
		return err
	}

	userID, err := parser.ParseOptionalID("user ID", in[0])
	if err != nil {
		return err
	}
	start, err := parser.ParseOptionalTimestamp("from", in[1])
	if err != nil {
		return err
	}
	end, err := parser.ParseOptionalTimestamp("to", in[2])
	if err != nil {
		return err
	}

	schedules, err := s.stores.Schedules.Find(ctx, model.ScheduleFilter{
		UserID: userID,
		Start:  start,
		End:    end,
	})
	if err != nil {
		return err
	}
	return s.out.Schedules(schedules)
}

func (s *Shell) deleteSchedule(ctx context.Context) error {
	id, err := s.askID("Schedule ID")
	if err != nil {
		return err
	}
	rows, err := s.stores.Schedules.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.out.Change("deleted", "schedule", id, rows)
}

func (s *Shell) viewSchedules(ctx context.Context) error {
	schedules, err := s.stores.Schedules.List(ctx)
	if err != nil {
		return err
	}
	return s.out.Schedules(schedules)
}

// =============================================================================
// Reminders
// =============================================================================

func (s *Shell) addReminder(ctx context.Context) error {
	in, err := s.askAll("Medication ID", "Time (YYYY-MM-DD HH:MM)", "Message")
	if err != nil {
		return err
	}

	medID, err := parser.ParseID("medication ID", in[0])
	if err != nil {
		return err
	}
	at, err := parser.ParseTimestamp("time", in[1])
	if err != nil {
		return err
	}
	msg := validate.SanitizeMessage(in[2])
	if err := validate.Message(msg); err != nil {
		return err
	}

	r, err := s.stores.Reminders.Add(ctx, medID, at, msg)
	if err != nil {
		return err
	}
	return s.out.Created("reminder", output.NewReminderOutput(r),
		fmt.Sprintf("Added reminder %d at %s", r.ID, output.FormatTimeShort(r.Time)))
}

func (s *Shell) updateReminder(ctx context.Context) error {
	in, err := s.askAll("Reminder ID", "New time (optional)", "New message (optional)")
	if err != nil {
		return err
	}

	id, err := parser.ParseID("reminder ID", in[0])
	if err != nil {
		return err
	}
	at, err := parser.ParseOptionalTimestamp("time", in[1])
	if err != nil {
		return err
	}
	patch := model.ReminderPatch{Time: at}
	if msg := parser.OptionalString(in[2]); msg != nil {
		clean := validate.SanitizeMessage(*msg)
		if err := validate.Message(clean); err != nil {
			return err
		}
		patch.Message = &clean
	}

	rows, err := s.stores.Reminders.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	return s.out.Change("updated", "reminder", id, rows)
}

func (s *Shell) findReminders(ctx context.Context) error {
	in, err := s.askAll("Medication ID (optional)", "Time (optional)")
	if err != nil {
		return err
	}

	medID, err := parser.ParseOptionalID("medication ID", in[0])
	if err != nil {
		return err
	}
	at, err := parser.ParseOptionalTimestamp("time", in[1])
	if err != nil {
		return err
	}

	reminders, err := s.stores.Reminders.Find(ctx, model.ReminderFilter{MedicationID: medID, Time: at})
	if err != nil {
		return err
	}
	return s.out.Reminders(reminders)
}

func (s *Shell) deleteReminder(ctx context.Context) error {
	id, err := s.askID("Reminder ID")
	if err != nil {
		return err
	}
	rows, err := s.stores.Reminders.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.out.Change("deleted", "reminder", id, rows)
}

func (s *Shell) viewReminders(ctx context.Context) error {
	reminders, err := s.stores.Reminders.List(ctx)
	if err != nil {
		return err
	}
	return s.out.Reminders(reminders)
}

// =============================================================================
// Dosage history
// =============================================================================

func (s *Shell) recordDose(ctx context.Context) error {
	in, err := s.askAll("User ID", "Medication ID")
	if err != nil {
		return err
	}

	userID, err := parser.ParseID("user ID", in[0])
	if err != nil {
		return err
	}
	medID, err := parser.ParseID("medication ID", in[1])
	if err != nil {
		return err
	}

	e, err := s.stores.Doses.Record(ctx, userID, medID)
	if err != nil {
		return err
	}
	return s.out.Created("dose", output.NewDoseOutput(e),
		fmt.Sprintf("Recorded dose of medication %d for user %d at %s",
			e.MedicationID, e.UserID, output.FormatTime(e.TimeTaken)))
}

func (s *Shell) viewDoses(ctx context.Context) error {
	line, err := s.ask("User ID (optional)")
	if err != nil {
		return err
	}
	userID, err := parser.ParseOptionalID("user ID", line)
	if err != nil {
		return err
	}

	var entries []*model.DoseEntry
	if userID != nil {
		entries, err = s.stores.Doses.ListByUser(ctx, *userID)
	} else {
		entries, err = s.stores.Doses.List(ctx)
	}
	if err != nil {
		return err
	}
	return s.out.Doses(entries)
}

func (s *Shell) askID(label string) (int64, error) {
	line, err := s.ask(label)
	if err != nil {
		return 0, err
	}
	return parser.ParseID(strings.ToLower(label[:1])+label[1:], line)
}
