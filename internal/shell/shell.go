// Package shell implements the interactive numbered-menu front end.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/runtime"
)

// UserStore is the user storage used by the shell.
type UserStore interface {
	Add(ctx context.Context, name string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// MedicationStore is the medication storage used by the shell.
type MedicationStore interface {
	Add(ctx context.Context, userID int64, name, dosage string) (*model.Medication, error)
	List(ctx context.Context) ([]*model.Medication, error)
	Find(ctx context.Context, f model.MedicationFilter) ([]*model.Medication, error)
	Update(ctx context.Context, id int64, p model.MedicationPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ScheduleStore is the schedule storage used by the shell.
type ScheduleStore interface {
	Add(ctx context.Context, userID int64, at time.Time) (*model.Schedule, error)
	List(ctx context.Context) ([]*model.Schedule, error)
	Find(ctx context.Context, f model.ScheduleFilter) ([]*model.Schedule, error)
	Update(ctx context.Context, id int64, at time.Time) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ReminderStore is the reminder storage used by the shell.
type ReminderStore interface {
	Add(ctx context.Context, medicationID int64, at time.Time, message string) (*model.Reminder, error)
	List(ctx context.Context) ([]*model.Reminder, error)
	Find(ctx context.Context, f model.ReminderFilter) ([]*model.Reminder, error)
	Update(ctx context.Context, id int64, p model.ReminderPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// DoseStore is the dosage history storage used by the shell.
type DoseStore interface {
	Record(ctx context.Context, userID, medicationID int64) (*model.DoseEntry, error)
	List(ctx context.Context) ([]*model.DoseEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.DoseEntry, error)
}

// Stores groups the repositories the shell operates on.
type Stores struct {
	Users       UserStore
	Medications MedicationStore
	Schedules   ScheduleStore
	Reminders   ReminderStore
	Doses       DoseStore
}

// MaxLineLength is the longest input line the shell accepts. Longer lines
// are discarded and reported.
const MaxLineLength = 1 << 20

// FromRuntime collects the repositories of a runtime context.
func FromRuntime(rt *runtime.Context) Stores {
	return Stores{
		Users:       rt.UserRepo,
		Medications: rt.MedicationRepo,
		Schedules:   rt.ScheduleRepo,
		Reminders:   rt.ReminderRepo,
		Doses:       rt.DoseRepo,
	}
}

// Shell reads menu choices and field values line by line.
type Shell struct {
	stores Stores
	out    *output.Formatter
	prompt io.Writer
	in     *bufio.Reader
}

// New creates a shell reading from in. Prompts and errors go to prompt,
// results are rendered through out.
func New(in io.Reader, prompt io.Writer, out *output.Formatter, stores Stores) *Shell {
	return &Shell{
		stores: stores,
		out:    out,
		prompt: prompt,
		in:     bufio.NewReader(in),
	}
}

// Run shows the menu and executes choices until the user picks 0, input
// ends, or ctx is cancelled. Operation errors are reported and the loop
// continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		line, err := s.ask("Choice")
		if err == io.EOF {
			fmt.Fprintln(s.prompt)
			return nil
		}
		if errors.IsUserError(err) {
			s.report(err)
			continue
		}
		if err != nil {
			return err
		}

		choice := strings.TrimSpace(line)
		if choice == "0" {
			return nil
		}

		item, err := lookup(choice)
		if err != nil {
			s.report(err)
			continue
		}

		opCtx := logging.NewRequestContext(ctx)
		logging.FromContext(opCtx).Debugw("menu choice", logging.KeyOperation, item.label)

		err = item.run(s, opCtx)
		if err == io.EOF {
			fmt.Fprintln(s.prompt)
			return nil
		}
		if err != nil {
			logging.FromContext(opCtx).Debugw("operation failed",
				logging.KeyOperation, item.label, logging.KeyError, err)
			s.report(err)
		}
	}
}

func (s *Shell) report(err error) {
	runtime.ReportError(s.out, s.prompt, err)
}

// ask prints label and reads one line. It returns io.EOF when input ends
// and a user error when the line is longer than MaxLineLength.
func (s *Shell) ask(label string) (string, error) {
	fmt.Fprintf(s.prompt, "%s: ", label)
	return s.readLine()
}

// readLine reads up to the next newline. An oversized line is consumed in
// full so the next read starts on the following line.
func (s *Shell) readLine() (string, error) {
	var sb strings.Builder
	tooLong := false
	for {
		chunk, isPrefix, err := s.in.ReadLine()
		if err != nil {
			if err == io.EOF && (sb.Len() > 0 || tooLong) {
				break
			}
			return "", err
		}
		if !tooLong {
			if sb.Len()+len(chunk) > MaxLineLength {
				tooLong = true
				sb.Reset()
			} else {
				sb.Write(chunk)
			}
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errors.NewUserError("input line too long",
			fmt.Sprintf("Lines are limited to %d bytes.", MaxLineLength))
	}
	return sb.String(), nil
}

// askAll reads one line per label. Every field is read before any is
// parsed so a bad value never leaves unread answers behind.
func (s *Shell) askAll(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	var lineErr error
	for i, label := range labels {
		line, err := s.ask(label)
		if errors.IsUserError(err) {
			if lineErr == nil {
				lineErr = err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		answers[i] = line
	}
	if lineErr != nil {
		return nil, lineErr
	}
	return answers, nil
}

func lookup(choice string) (menuItem, error) {
	n, err := strconv.Atoi(choice)
	if err == nil {
		for _, item := range menu {
			if item.number == n {
				return item, nil
			}
		}
	}
	return menuItem{}, errors.NewUserErrorWithField("choice", choice,
		"invalid menu choice", "").Because(errors.ErrInvalidChoice)
}
