package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/tui"
)

var dashboardFlagRefresh time.Duration

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard [DAY...]",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive agenda dashboard",
	Long: `Open a terminal dashboard of one day's doses and reminders.

The dashboard shows:
  - The next dose or reminder and how long until it is due
  - The day's agenda with past items struck through
  - Progress through the day

Keyboard Controls:
  ←/h, →/l - Previous / next day
  t        - Back to today
  r        - Refresh data
  q        - Quit dashboard

Examples:
  medtrack dashboard
  medtrack dash tomorrow`,
	ValidArgsFunction: completeDays,
	RunE:              runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardFlagRefresh, "refresh", 30*time.Second,
		"How often to reload the agenda")

	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.NewUserError("the dashboard needs an interactive terminal", "").
			Because(errors.ErrTerminalRequired)
	}

	day, err := parser.ParseDay(joinArgs(args), time.Now())
	if err != nil {
		return err
	}

	// Configure the dashboard
	config := tui.DashboardConfig{
		Load:            rt.LoadAgenda,
		Day:             day,
		RefreshInterval: dashboardFlagRefresh,
	}

	// Run the TUI dashboard
	return tui.Run(config)
}
