package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/notify"
	"github.com/manav03panchal/medtrack/internal/storage"
	"github.com/manav03panchal/medtrack/internal/watcher"
)

// Watch command flags.
var (
	watchFlagFormat    string
	watchFlagTemplate  string
	watchFlagAppend    string
	watchFlagSpec      string
	watchFlagSummaryAt string
	watchFlagOnce      bool
	watchFlagTest      bool
	watchFlagMetrics   bool
)

// watchCmd runs the reminder watcher in the foreground.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print reminders and doses as they come due",
	Long: `Run the reminder watcher in the foreground until interrupted.

Every minute the watcher announces reminders and scheduled doses whose time
has arrived, each exactly once. After a suspend it catches up on the last
hour and skips anything older. Only one watcher may run per database;
SIGHUP triggers an immediate check.

Notifications are written to stdout as text, JSON or a Go template with the
fields .Type, .Title, .Message, .Fields and .Timestamp.

Examples:
  medtrack watch
  medtrack watch --notify-format json
  medtrack watch --template '{{.Title}}: {{.Message}}'
  medtrack watch --append ~/medtrack.log --summary-at 07:30
  medtrack watch --test`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFlagFormat, "notify-format", notify.FormatText,
		"Notification format: text, json")
	watchCmd.Flags().StringVar(&watchFlagTemplate, "template", "",
		"Go template for notifications (overrides --notify-format)")
	watchCmd.Flags().StringVar(&watchFlagAppend, "append", "",
		"Also append notifications to this file")
	watchCmd.Flags().StringVar(&watchFlagSpec, "spec", "",
		"Cron spec with seconds (default from MEDTRACK_WATCH_SPEC)")
	watchCmd.Flags().StringVar(&watchFlagSummaryAt, "summary-at", "",
		"Send a daily agenda summary at HH:MM (default from MEDTRACK_SUMMARY_AT)")
	watchCmd.Flags().BoolVar(&watchFlagOnce, "once", false,
		"Run one check for the current minute and exit")
	watchCmd.Flags().BoolVar(&watchFlagTest, "test", false,
		"Send a test notification and exit")
	watchCmd.Flags().BoolVar(&watchFlagMetrics, "metrics", false,
		"Print watcher metrics as JSON on exit")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := opContext(cmd)
	log := logging.FromContext(ctx)

	formatter, err := notificationFormatter()
	if err != nil {
		return err
	}

	sinks := []notify.Sink{notify.NewWriterSink("stdout", cmd.OutOrStdout())}
	if watchFlagAppend != "" {
		f, err := os.OpenFile(watchFlagAppend, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return errors.NewSystemErrorWithOp("watch", "cannot open notification file", err)
		}
		defer f.Close()
		sinks = append(sinks, notify.NewWriterSink(filepath.Base(watchFlagAppend), f))
	}

	cfg := *rt.Config
	if watchFlagSpec != "" {
		cfg.WatchSpec = watchFlagSpec
	}
	if watchFlagSummaryAt != "" {
		cfg.SummaryAt = watchFlagSummaryAt
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := watcher.Options{
		Spec:      cfg.WatchSpec,
		SummaryAt: cfg.SummaryAt,
		Formatter: formatter,
		Sinks:     sinks,
	}
	if path := rt.DB.Path(); !storage.IsMemory(path) {
		opts.LockDir = filepath.Dir(path)
	}

	w, err := watcher.New(watcher.Sources{
		Users:       rt.UserRepo,
		Medications: rt.MedicationRepo,
		Schedules:   rt.ScheduleRepo,
		Reminders:   rt.ReminderRepo,
		Agenda:      rt.LoadAgenda,
	}, opts)
	if err != nil {
		return err
	}

	switch {
	case watchFlagTest:
		for _, r := range w.SendTest(ctx) {
			if !r.Success {
				return errors.NewSystemErrorWithOp("watch", "test notification failed on "+r.SinkName, r.Error)
			}
			log.Debugw("test notification sent", "sink", r.SinkName, "duration", r.Duration)
		}
	case watchFlagOnce:
		n := w.RunOnce(ctx)
		log.Debugw("single check finished", logging.KeyCount, n)
	default:
		if err := w.Run(ctx); err != nil {
			return err
		}
	}

	if watchFlagMetrics {
		data, err := w.Metrics().JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), string(data))
	}
	return nil
}

func notificationFormatter() (notify.Formatter, error) {
	if watchFlagTemplate != "" {
		tf := notify.NewTemplateFormatter(watchFlagTemplate)
		if err := tf.Validate(); err != nil {
			return nil, errors.NewUserErrorWithField("template", watchFlagTemplate,
				"invalid notification template", "Check the Go template syntax, e.g. '{{.Title}}: {{.Message}}'.")
		}
		return tf, nil
	}

	switch watchFlagFormat {
	case notify.FormatText, notify.FormatJSON:
		return notify.GetFormatter(watchFlagFormat, ""), nil
	default:
		return nil, errors.NewUserErrorWithField("notify-format", watchFlagFormat,
			"unknown notification format", "Use one of: text, json.")
	}
}
