package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
)

// NextComponent shows the next item due and how far away it is.
type NextComponent struct {
	Item  *model.AgendaItem
	Now   time.Time
	Width int
}

// NewNextComponent creates a next-due component from an agenda. The item is
// nil when nothing is left today.
func NewNextComponent(a *model.Agenda, now time.Time, width int) *NextComponent {
	nc := &NextComponent{Now: now, Width: width}
	if a != nil {
		if upcoming := a.Upcoming(now); len(upcoming) > 0 {
			item := upcoming[0]
			nc.Item = &item
		}
	}
	return nc
}

// View renders the next-due component.
func (nc *NextComponent) View() string {
	if nc.Item == nil {
		box := StyleIdleBox.Width(boxWidth(nc.Width))
		return box.Render(StyleSubtitle.Render("Nothing else due today"))
	}

	var content strings.Builder
	content.WriteString(StyleSuccess.Render("● NEXT"))
	content.WriteString("\n\n")
	content.WriteString(StyleTime.Render(output.FormatTimeOnly(nc.Item.Time)))
	content.WriteString("  ")
	content.WriteString(describe(*nc.Item))
	content.WriteString("\n\n")
	content.WriteString(StyleSubtitle.Render("in " + FormatUntil(nc.Item.Time.Sub(nc.Now))))

	box := StyleNextBox.Width(boxWidth(nc.Width))
	return box.Render(content.String())
}

// AgendaComponent lists a day's items and how many have passed.
type AgendaComponent struct {
	Agenda *model.Agenda
	Now    time.Time
	Width  int
}

// NewAgendaComponent creates a new agenda component.
func NewAgendaComponent(a *model.Agenda, now time.Time, width int) *AgendaComponent {
	return &AgendaComponent{Agenda: a, Now: now, Width: width}
}

// View renders the agenda component.
func (ac *AgendaComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Agenda for " + output.FormatDate(ac.Agenda.Day)))
	content.WriteString("\n")

	if len(ac.Agenda.Items) == 0 {
		content.WriteString(StyleSubtitle.Render("Nothing scheduled"))
		return StyleAgendaBox.Width(boxWidth(ac.Width)).Render(content.String())
	}

	past := 0
	for i, item := range ac.Agenda.Items {
		if i > 0 {
			content.WriteString("\n")
		}
		line := output.FormatTimeOnly(item.Time) + "  " + describe(item)
		if item.Time.Before(ac.Now) {
			past++
			content.WriteString(StylePast.Render(line))
			continue
		}
		content.WriteString(StyleTime.Render(output.FormatTimeOnly(item.Time)))
		content.WriteString("  ")
		content.WriteString(describe(item))
	}

	content.WriteString("\n\n")
	barWidth := ac.Width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	pct := float64(past) * 100 / float64(len(ac.Agenda.Items))
	content.WriteString(ProgressBar(pct, barWidth))
	content.WriteString(" ")
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("%d/%d done", past, len(ac.Agenda.Items))))

	return StyleAgendaBox.Width(boxWidth(ac.Width)).Render(content.String())
}

// describe renders the kind, who and what of an item.
func describe(item model.AgendaItem) string {
	var sb strings.Builder
	switch item.Kind {
	case model.AgendaDose:
		sb.WriteString(StyleDose.Render("dose"))
	default:
		sb.WriteString(StyleReminder.Render("reminder"))
	}
	if item.Who != "" {
		sb.WriteString("  " + item.Who)
	}
	if item.What != "" {
		sb.WriteString("  " + item.What)
	}
	if item.Message != "" {
		sb.WriteString("  " + StyleMessage.Render(fmt.Sprintf("%q", item.Message)))
	}
	return sb.String()
}

// FormatUntil renders a positive duration as "2h 5m" or "45m".
func FormatUntil(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

func boxWidth(width int) int {
	if width < 24 {
		return 20
	}
	return width - 4
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"←/→", "day"},
		{"t", "today"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
