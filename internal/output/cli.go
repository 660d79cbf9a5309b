package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/medtrack/internal/model"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) styled(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.styled(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.styled(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.styled(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.styled(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.styled(styleMuted, text))
}

// empty prints the message for an empty listing, except in plain mode where
// nothing is printed.
func (c *CLIFormatter) empty(what string) {
	if c.Format == FormatPlain {
		return
	}
	c.Muted("No " + what + " found.")
}

// PrintUsers prints users as a table.
func (c *CLIFormatter) PrintUsers(users []*model.User) {
	if len(users) == 0 {
		c.empty("users")
		return
	}
	rows := make([]TableRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, TableRow{Columns: []string{fmt.Sprint(u.ID), u.Name}})
	}
	c.PrintTable([]string{"ID", "NAME"}, rows)
}

// PrintMedications prints medications as a table.
func (c *CLIFormatter) PrintMedications(meds []*model.Medication) {
	if len(meds) == 0 {
		c.empty("medications")
		return
	}
	rows := make([]TableRow, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprint(m.ID), m.Name, m.Dosage, FormatUserID(m.UserID),
		}})
	}
	c.PrintTable([]string{"ID", "NAME", "DOSAGE", "USER"}, rows)
}

// PrintSchedules prints schedules as a table.
func (c *CLIFormatter) PrintSchedules(schedules []*model.Schedule) {
	if len(schedules) == 0 {
		c.empty("schedules")
		return
	}
	rows := make([]TableRow, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprint(s.ID), fmt.Sprint(s.UserID), FormatTimeShort(s.Time),
		}})
	}
	c.PrintTable([]string{"ID", "USER", "TIME"}, rows)
}

// PrintReminders prints reminders as a table.
func (c *CLIFormatter) PrintReminders(reminders []*model.Reminder) {
	if len(reminders) == 0 {
		c.empty("reminders")
		return
	}
	rows := make([]TableRow, 0, len(reminders))
	for _, r := range reminders {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprint(r.ID), fmt.Sprint(r.MedicationID), FormatTimeShort(r.Time), r.Message,
		}})
	}
	c.PrintTable([]string{"ID", "MEDICATION", "TIME", "MESSAGE"}, rows)
}

// PrintDoses prints dosage history as a table.
func (c *CLIFormatter) PrintDoses(entries []*model.DoseEntry) {
	if len(entries) == 0 {
		c.empty("dosage history")
		return
	}
	rows := make([]TableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprint(e.ID), fmt.Sprint(e.UserID), fmt.Sprint(e.MedicationID), FormatTime(e.TimeTaken),
		}})
	}
	c.PrintTable([]string{"ID", "USER", "MEDICATION", "TAKEN"}, rows)
}

// PrintAgenda prints a day's agenda.
func (c *CLIFormatter) PrintAgenda(a *model.Agenda) {
	if c.Format != FormatPlain {
		c.Title("Agenda for " + FormatDate(a.Day))
	}
	if len(a.Items) == 0 {
		c.empty("doses or reminders")
		return
	}

	rows := make([]TableRow, 0, len(a.Items))
	for _, item := range a.Items {
		detail := item.What
		if item.Message != "" {
			detail = strings.TrimSpace(detail + " " + item.Message)
		}
		rows = append(rows, TableRow{Columns: []string{
			FormatTimeOnly(item.Time), string(item.Kind), item.Who, detail,
		}})
	}
	c.PrintTable([]string{"TIME", "KIND", "WHO", "DETAIL"}, rows)
}

// PrintChange reports the outcome of an update or delete. verb is the
// lower-case past tense, e.g. "deleted".
func (c *CLIFormatter) PrintChange(verb, entity string, id, rows int64) {
	if rows == 0 {
		c.Warning(fmt.Sprintf("No %s with ID %d.", entity, id))
		return
	}
	c.Success(fmt.Sprintf("%s %s %d.", strings.ToUpper(verb[:1])+verb[1:], entity, id))
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple aligned table. In plain mode rows are
// tab-separated without a header.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	if c.Format == FormatPlain {
		for _, row := range rows {
			c.Println(strings.Join(row.Columns, "\t"))
		}
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	// Print headers
	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.styled(styleBold, strings.TrimRight(headerLine.String(), " ")))

	// Print separator
	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	// Print rows
	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
