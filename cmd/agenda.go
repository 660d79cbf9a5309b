package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/parser"
)

// agendaCmd lists one day's doses and reminders.
var agendaCmd = &cobra.Command{
	Use:     "agenda [DAY...]",
	Aliases: []string{"today", "a"},
	Short:   "Show the doses and reminders of one day",
	Long: `Show the scheduled doses and reminders of one day in time order.

DAY defaults to today and accepts natural language.

Examples:
  medtrack agenda
  medtrack agenda tomorrow
  medtrack agenda next monday
  medtrack agenda 2024-12-25`,
	ValidArgsFunction: completeDays,
	RunE:              runAgenda,
}

func init() {
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, args []string) error {
	day, err := parser.ParseDay(joinArgs(args), time.Now())
	if err != nil {
		return err
	}

	agenda, err := rt.LoadAgenda(opContext(cmd), day)
	if err != nil {
		return err
	}
	return rt.Formatter.Agenda(agenda)
}

// joinArgs rebuilds a free-text argument split by the shell.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
