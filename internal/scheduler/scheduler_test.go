package scheduler

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/notify"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/storage"
)

type fixture struct {
	users       *storage.UserRepo
	medications *storage.MedicationRepo
	schedules   *storage.ScheduleRepo
	reminders   *storage.ReminderRepo
	out         *bytes.Buffer
	dispatcher  *notify.Dispatcher
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	out := &bytes.Buffer{}
	return &fixture{
		users:       storage.NewUserRepo(db),
		medications: storage.NewMedicationRepo(db),
		schedules:   storage.NewScheduleRepo(db),
		reminders:   storage.NewReminderRepo(db),
		out:         out,
		dispatcher:  notify.NewDispatcher(&notify.TextFormatter{}, notify.NewWriterSink("test", out)),
	}
}

// seedAlice adds user Alice with Aspirin 100mg and returns their IDs.
func (f *fixture) seedAlice(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Add(ctx, "Alice")
	require.NoError(t, err)
	m, err := f.medications.Add(ctx, u.ID, "Aspirin", "100mg")
	require.NoError(t, err)
	return u.ID, m.ID
}

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 12, 25, hour, min, sec, 0, time.UTC)
}

// =============================================================================
// Scheduler Tests
// =============================================================================

func TestNewScheduler(t *testing.T) {
	s := NewScheduler("0 * * * * *")
	assert.NotNil(t, s.cron)
	assert.True(t, s.NextRun().IsZero())
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler("0 * * * * *")
	require.NoError(t, s.Start(context.Background()))

	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.NextRun().IsZero())

	s.Stop()
}

func TestSchedulerBadSpec(t *testing.T) {
	s := NewScheduler("every minute")
	assert.Error(t, s.Start(context.Background()))
}

type stubChecker struct {
	name  string
	count int
	err   error
	calls int
}

func (c *stubChecker) Name() string { return c.name }

func (c *stubChecker) Check(_ context.Context, _ time.Time) (int, error) {
	c.calls++
	return c.count, c.err
}

func TestRunChecksContinuesAfterFailure(t *testing.T) {
	s := NewScheduler("0 * * * * *")
	failing := &stubChecker{name: "failing", err: stderrors.New("database is locked")}
	working := &stubChecker{name: "working", count: 2}
	s.AddChecker(failing)
	s.AddChecker(working)

	assert.Equal(t, 2, s.RunChecks(at(9, 0, 0)))
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

// =============================================================================
// Cursor Tests
// =============================================================================

func TestCursorWindow(t *testing.T) {
	c := newCursor(at(9, 0, 30))

	from, to, skipped, ok := c.window(at(9, 0, 40))
	require.True(t, ok)
	assert.False(t, skipped)
	assert.Equal(t, at(8, 59, 0), from)
	assert.Equal(t, at(9, 0, 0), to)
	c.advance(to)

	_, _, _, ok = c.window(at(9, 0, 59))
	assert.False(t, ok)

	from, to, _, ok = c.window(at(9, 1, 5))
	require.True(t, ok)
	assert.Equal(t, at(9, 0, 0), from)
	assert.Equal(t, at(9, 1, 0), to)
	c.advance(to)

	from, _, skipped, ok = c.window(at(12, 0, 0))
	require.True(t, ok)
	assert.True(t, skipped)
	assert.Equal(t, at(11, 0, 0), from)
}

// =============================================================================
// ReminderChecker Tests
// =============================================================================

func TestReminderCheckerFiresOnce(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	_, medID := f.seedAlice(t)

	_, err := f.reminders.Add(ctx, medID, at(8, 0, 0), "too early")
	require.NoError(t, err)
	_, err = f.reminders.Add(ctx, medID, at(9, 0, 0), "take pill")
	require.NoError(t, err)
	_, err = f.reminders.Add(ctx, medID, at(9, 5, 0), "")
	require.NoError(t, err)

	c := NewReminderChecker(f.reminders, f.medications, f.dispatcher, at(9, 0, 10))

	n, err := c.Check(ctx, at(9, 0, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[09:00] Reminder: take pill (medication=Aspirin 100mg, reminder=2)\n", f.out.String())

	n, err = c.Check(ctx, at(9, 0, 50))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.out.Reset()
	n, err = c.Check(ctx, at(9, 6, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[09:05] Reminder: Time for your medication (medication=Aspirin 100mg, reminder=3)\n", f.out.String())

	n, err = c.Check(ctx, at(9, 6, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NotContains(t, f.out.String(), "too early")
}

type flakyReminders struct {
	fail  bool
	calls []time.Time
}

func (r *flakyReminders) Between(_ context.Context, after, _ time.Time) ([]*model.Reminder, error) {
	r.calls = append(r.calls, after)
	if r.fail {
		r.fail = false
		return nil, stderrors.New("database is locked")
	}
	return nil, nil
}

func TestReminderCheckerRetriesWindowAfterError(t *testing.T) {
	f := setupFixture(t)
	src := &flakyReminders{fail: true}
	c := NewReminderChecker(src, f.medications, f.dispatcher, at(9, 0, 0))

	_, err := c.Check(context.Background(), at(9, 1, 0))
	assert.Error(t, err)

	_, err = c.Check(context.Background(), at(9, 2, 0))
	require.NoError(t, err)

	require.Len(t, src.calls, 2)
	assert.Equal(t, src.calls[0], src.calls[1])
}

// =============================================================================
// DoseChecker Tests
// =============================================================================

func TestDoseChecker(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	userID, _ := f.seedAlice(t)

	_, err := f.schedules.Add(ctx, userID, at(9, 0, 0))
	require.NoError(t, err)
	_, err = f.schedules.Add(ctx, userID, at(21, 0, 0))
	require.NoError(t, err)

	c := NewDoseChecker(f.schedules, f.users, f.medications, f.dispatcher, at(8, 58, 0))

	n, err := c.Check(ctx, at(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t,
		"[09:00] Dose due: Time to take your medication (medications=Aspirin 100mg, user=Alice)\n",
		f.out.String())

	n, err = c.Check(ctx, at(9, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDoseCheckerViaScheduler(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	userID, medID := f.seedAlice(t)

	_, err := f.schedules.Add(ctx, userID, at(9, 0, 0))
	require.NoError(t, err)
	_, err = f.reminders.Add(ctx, medID, at(9, 0, 0), "take pill")
	require.NoError(t, err)

	s := NewScheduler("0 * * * * *")
	s.AddChecker(NewReminderChecker(f.reminders, f.medications, f.dispatcher, at(8, 59, 0)))
	s.AddChecker(NewDoseChecker(f.schedules, f.users, f.medications, f.dispatcher, at(8, 59, 0)))

	assert.Equal(t, 2, s.RunChecks(at(9, 0, 0)))
	assert.Equal(t, 0, s.RunChecks(at(9, 0, 30)))
}

// =============================================================================
// SummaryGenerator Tests
// =============================================================================

func TestSummaryGenerator(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	var loaded []parser.DayRange
	load := func(_ context.Context, day parser.DayRange) (*model.Agenda, error) {
		loaded = append(loaded, day)
		return &model.Agenda{Day: day.Start, Items: []model.AgendaItem{
			{Time: day.Start.Add(9 * time.Hour), Kind: model.AgendaDose, Who: "Alice"},
			{Time: day.Start.Add(10 * time.Hour), Kind: model.AgendaReminder, What: "Aspirin 100mg"},
		}}, nil
	}

	g, err := NewSummaryGenerator(load, f.dispatcher, "07:30")
	require.NoError(t, err)

	n, err := g.Check(ctx, at(7, 29, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = g.Check(ctx, at(7, 31, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t,
		"[07:31] Daily summary: Wednesday, 1 doses and 1 reminders planned (day=2024-12-25, next=09:00 dose for Alice)\n",
		f.out.String())

	n, err = g.Check(ctx, at(7, 32, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = g.Check(ctx, at(7, 30, 0).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, loaded, 2)
}

func TestSummaryGeneratorBadTime(t *testing.T) {
	_, err := NewSummaryGenerator(nil, nil, "7am")
	assert.Error(t, err)
}
