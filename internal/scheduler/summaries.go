package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/notify"
	"github.com/manav03panchal/medtrack/internal/parser"
)

// summaryWindow is how long after the target time a missed summary is
// still sent.
const summaryWindow = 5 * time.Minute

// AgendaLoader loads the agenda of one day.
type AgendaLoader func(ctx context.Context, day parser.DayRange) (*model.Agenda, error)

// SummaryGenerator sends the day's agenda once a day at a fixed time.
type SummaryGenerator struct {
	load       AgendaLoader
	dispatcher *notify.Dispatcher
	at         time.Time
	lastSent   time.Time
}

// NewSummaryGenerator creates a generator that fires at the HH:MM time of
// day at.
func NewSummaryGenerator(load AgendaLoader, dispatcher *notify.Dispatcher, at string) (*SummaryGenerator, error) {
	target, err := parseTimeOfDay(at)
	if err != nil {
		return nil, err
	}
	return &SummaryGenerator{load: load, dispatcher: dispatcher, at: target}, nil
}

// Name returns the checker name used in logs.
func (g *SummaryGenerator) Name() string {
	return "summary"
}

// Check sends the summary if now is within the window after the target time
// and no summary was sent today.
func (g *SummaryGenerator) Check(ctx context.Context, now time.Time) (int, error) {
	if !g.shouldSend(now) {
		return 0, nil
	}

	day, err := parser.ParseDay("", now)
	if err != nil {
		return 0, err
	}
	agenda, err := g.load(ctx, day)
	if err != nil {
		return 0, err
	}

	g.dispatcher.SendNotification(ctx, summaryNotification(agenda, now))
	g.lastSent = now
	return 1, nil
}

// shouldSend checks if we should send a summary at now.
func (g *SummaryGenerator) shouldSend(now time.Time) bool {
	todayTarget := time.Date(now.Year(), now.Month(), now.Day(),
		g.at.Hour(), g.at.Minute(), 0, 0, now.Location())

	if now.Before(todayTarget) || now.After(todayTarget.Add(summaryWindow)) {
		return false
	}

	if !g.lastSent.IsZero() {
		ly, lm, ld := g.lastSent.Date()
		ny, nm, nd := now.Date()
		if ly == ny && lm == nm && ld == nd {
			return false
		}
	}

	return true
}

func summaryNotification(a *model.Agenda, now time.Time) *model.Notification {
	doses, reminders := 0, 0
	for _, item := range a.Items {
		switch item.Kind {
		case model.AgendaDose:
			doses++
		case model.AgendaReminder:
			reminders++
		}
	}

	n := model.NewNotification(model.NotifySummary, "Today",
		fmt.Sprintf("%s, %d doses and %d reminders planned", now.Format("Monday"), doses, reminders), now).
		WithField("day", a.Day.Format(model.DayLayout))

	if upcoming := a.Upcoming(now); len(upcoming) > 0 {
		next := upcoming[0]
		label := next.What
		if next.Kind == model.AgendaDose {
			label = "dose for " + next.Who
		}
		n.WithField("next", next.Time.Format("15:04")+" "+label)
	}
	return n
}

// parseTimeOfDay parses a time string in HH:MM format.
func parseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("3:04", s)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s (expected HH:MM)", s)
}
