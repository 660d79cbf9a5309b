// Package runtime provides application runtime context for medtrack.
package runtime

import (
	"context"
	"io"
	"time"

	"github.com/manav03panchal/medtrack/internal/config"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter
	Config    *config.Config

	// Repositories
	UserRepo       *storage.UserRepo
	MedicationRepo *storage.MedicationRepo
	ScheduleRepo   *storage.ScheduleRepo
	ReminderRepo   *storage.ReminderRepo
	DoseRepo       *storage.DoseRepo
}

// Options configures the runtime context.
type Options struct {
	Config    *config.Config
	Format    output.Format
	ColorMode output.ColorMode
	// Writer receives command output. Defaults to stdout.
	Writer io.Writer
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Config:    config.Default(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New opens the database named by the config and builds every repository
// on that one handle.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	db, err := storage.Open(ctx, storage.Options{Path: cfg.DatabasePath})
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}
	if opts.Writer != nil {
		formatter.Writer = opts.Writer
	}

	return &Context{
		DB:             db,
		Formatter:      formatter,
		Config:         cfg,
		UserRepo:       storage.NewUserRepo(db),
		MedicationRepo: storage.NewMedicationRepo(db),
		ScheduleRepo:   storage.NewScheduleRepo(db),
		ReminderRepo:   storage.NewReminderRepo(db),
		DoseRepo:       storage.NewDoseRepo(db),
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// LoadAgenda collects the schedules and reminders of one day and labels
// them with user and medication names.
func (c *Context) LoadAgenda(ctx context.Context, day parser.DayRange) (*model.Agenda, error) {
	schedules, err := c.ScheduleRepo.Find(ctx, model.ScheduleFilter{Start: &day.Start, End: &day.End})
	if err != nil {
		return nil, err
	}
	// Between excludes its lower bound.
	reminders, err := c.ReminderRepo.Between(ctx, day.Start.Add(-time.Minute), day.End)
	if err != nil {
		return nil, err
	}

	users, err := c.UserRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	meds, err := c.MedicationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	userByID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	medByID := make(map[int64]*model.Medication, len(meds))
	for _, m := range meds {
		medByID[m.ID] = m
	}

	return model.BuildAgenda(day.Start, schedules, reminders, userByID, medByID), nil
}
