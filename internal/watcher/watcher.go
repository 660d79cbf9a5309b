// Package watcher hosts the long-running reminder watcher: it holds the
// watcher lock, drives the scheduler and stops on SIGINT or SIGTERM.
package watcher

import (
	"context"
	"time"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/notify"
	"github.com/manav03panchal/medtrack/internal/scheduler"
	"github.com/manav03panchal/medtrack/internal/storage"
)

// DefaultSpec runs the checks at the top of every minute.
const DefaultSpec = "0 * * * * *"

// Sources are the stores the checkers read from.
type Sources struct {
	Users       scheduler.UserSource
	Medications scheduler.MedicationSource
	Schedules   scheduler.ScheduleSource
	Reminders   scheduler.ReminderSource
	// Agenda is only needed when a daily summary is configured.
	Agenda scheduler.AgendaLoader
}

// Options configures a watcher.
type Options struct {
	// Spec is a cron expression with a seconds field. Defaults to DefaultSpec.
	Spec string
	// SummaryAt is the HH:MM time of the daily summary. Empty disables it.
	SummaryAt string
	// LockDir holds the lock file. Empty skips locking, as for an in-memory
	// database that no other process can see.
	LockDir   string
	Formatter notify.Formatter
	Sinks     []notify.Sink
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Watcher announces reminders and doses as they come due.
type Watcher struct {
	opts       Options
	scheduler  *scheduler.Scheduler
	dispatcher *notify.Dispatcher
	metrics    *Metrics
	startedAt  time.Time
}

// New builds a watcher. Checkers start from the current minute, so nothing
// due before New is announced.
func New(src Sources, opts Options) (*Watcher, error) {
	if opts.Spec == "" {
		opts.Spec = DefaultSpec
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	metrics := NewMetrics()
	sinks := make([]notify.Sink, len(opts.Sinks))
	for i, s := range opts.Sinks {
		sinks[i] = meteredSink{Sink: s, metrics: metrics}
	}
	dispatcher := notify.NewDispatcher(opts.Formatter, sinks...)

	start := opts.Now()
	sched := scheduler.NewScheduler(opts.Spec)
	sched.SetClock(opts.Now)

	checkers := []scheduler.Checker{
		scheduler.NewReminderChecker(src.Reminders, src.Medications, dispatcher, start),
		scheduler.NewDoseChecker(src.Schedules, src.Users, src.Medications, dispatcher, start),
	}
	if opts.SummaryAt != "" {
		summary, err := scheduler.NewSummaryGenerator(src.Agenda, dispatcher, opts.SummaryAt)
		if err != nil {
			return nil, errors.NewUserErrorWithField("summary", opts.SummaryAt,
				"invalid summary time", "Use HH:MM, for example 07:30.").Because(errors.ErrInvalidConfig)
		}
		checkers = append(checkers, summary)
	}
	for _, c := range checkers {
		sched.AddChecker(meteredChecker{Checker: c, metrics: metrics})
	}

	return &Watcher{
		opts:       opts,
		scheduler:  sched,
		dispatcher: dispatcher,
		metrics:    metrics,
	}, nil
}

// Run takes the lock and runs checks on schedule until ctx is cancelled or a
// shutdown signal arrives.
func (w *Watcher) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if w.opts.LockDir != "" {
		lock := storage.NewFileLock(w.opts.LockDir)
		if err := lock.Acquire(); err != nil {
			return lockError(err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warnw("failed to release watcher lock", logging.KeyError, err)
			}
		}()
	}

	sigHandler := NewSignalHandler()
	sigHandler.Setup()
	defer sigHandler.Cleanup()

	if err := w.scheduler.Start(ctx); err != nil {
		return err
	}
	w.startedAt = w.opts.Now()
	log.Infow("watcher started", "spec", w.opts.Spec, "sinks", w.dispatcher.SinkCount(),
		"next", w.scheduler.NextRun())

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-sigHandler.Rescan():
				w.RunOnce(ctx)
			case <-ctx.Done():
				return
			case <-sigHandler.done:
				return
			}
		}
	}()

	sig := sigHandler.Wait(ctx)
	if sig != nil {
		log.Infow("received signal", "signal", sig.String())
	}
	sigHandler.Stop()
	<-stopped

	w.scheduler.Stop()
	snap := w.metrics.Snapshot()
	log.Infow("watcher stopped",
		"checks", snap.ChecksRunTotal,
		"sent", snap.NotificationsSentTotal,
		"failed", snap.NotificationsFailedTotal,
		"uptime", w.opts.Now().Sub(w.startedAt).Round(time.Second).String())
	return nil
}

// RunOnce runs every checker once at the current time and returns the
// number of notifications sent.
func (w *Watcher) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	return w.scheduler.RunChecks(w.opts.Now())
}

// SendTest sends a test notification to every sink.
func (w *Watcher) SendTest(ctx context.Context) []notify.DispatchResult {
	return w.dispatcher.SendTest(ctx, w.opts.Now())
}

// Metrics returns the watcher's metrics.
func (w *Watcher) Metrics() *Metrics {
	return w.metrics
}

func lockError(err error) error {
	if errors.Is(err, storage.ErrLockAlreadyHeld) {
		ue := errors.NewUserError(err.Error(), "Stop the other 'medtrack watch' before starting a new one.")
		ue.Err = err
		return ue
	}
	return errors.NewSystemErrorWithOp("watch", "lock error", err)
}
