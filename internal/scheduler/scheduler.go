// Package scheduler runs the reminder watcher: a cron job that announces
// reminders and scheduled doses as they come due.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
)

// MaxCatchUp bounds how far back a check looks after the process was
// suspended. Anything older is skipped rather than announced late.
const MaxCatchUp = time.Hour

// Checker is one periodic check run on every tick.
type Checker interface {
	Name() string
	Check(ctx context.Context, now time.Time) (int, error)
}

// Scheduler manages the watcher's cron job.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	now      func() time.Time
	mu       sync.Mutex
	checkers []Checker
	ctx      context.Context
}

// NewScheduler creates a scheduler that runs its checkers on spec, a cron
// expression with a seconds field.
func NewScheduler(spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		spec: spec,
		now:  time.Now,
		ctx:  context.Background(),
	}
}

// SetClock replaces the clock used for each tick.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// AddChecker registers a checker. Checkers run in registration order.
func (s *Scheduler) AddChecker(c Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, c)
}

// Start starts the cron job. Checks run until Stop is called; ctx is the
// parent of every tick's context.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx

	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunChecks(s.now())
	})
	if err != nil {
		return fmt.Errorf("failed to add watch job %q: %w", s.spec, err)
	}

	s.cron.Start()
	logging.FromContext(ctx).Debugw("scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		done := s.cron.Stop()
		<-done.Done()
	}
	logging.FromContext(s.ctx).Debugw("scheduler stopped")
}

// RunChecks runs every checker once for now and returns the number of
// notifications sent. Ticks never overlap. A failing checker is logged and
// the remaining checkers still run. Checkers see now as wall-clock time.
func (s *Scheduler) RunChecks(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = model.WallClock(now)

	ctx := logging.NewRequestContext(s.ctx)
	log := logging.FromContext(ctx)

	total := 0
	for _, c := range s.checkers {
		n, err := c.Check(ctx, now)
		if err != nil {
			log.Warnw("check failed", logging.KeyOperation, c.Name(), logging.KeyError, err)
			continue
		}
		if n > 0 {
			log.Infow("notifications sent", logging.KeyOperation, c.Name(), logging.KeyCount, n)
		}
		total += n
	}
	return total
}

// Entries returns all scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns the next scheduled run time, or the zero time before
// Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}

// cursor tracks the last minute a checker has covered so each due item is
// seen by exactly one tick.
type cursor struct {
	last time.Time
}

// newCursor starts a cursor so that items due in the minute of start are
// still announced.
func newCursor(start time.Time) cursor {
	return cursor{last: model.WallClock(start).Truncate(time.Minute).Add(-time.Minute)}
}

// window returns the minutes (from, to] not yet covered at now. ok is false
// when there is nothing new. skipped reports a gap longer than MaxCatchUp
// whose older part was dropped.
func (c *cursor) window(now time.Time) (from, to time.Time, skipped, ok bool) {
	to = now.Truncate(time.Minute)
	if !to.After(c.last) {
		return time.Time{}, time.Time{}, false, false
	}
	from = c.last
	if to.Sub(from) > MaxCatchUp {
		from = to.Add(-MaxCatchUp)
		skipped = true
	}
	return from, to, skipped, true
}

// advance marks everything up to to as covered.
func (c *cursor) advance(to time.Time) {
	c.last = to
}
