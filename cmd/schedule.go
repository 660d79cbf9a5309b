package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
)

// Schedule find flags.
var (
	scheduleFindUser string
	scheduleFindFrom string
	scheduleFindTo   string
)

// scheduleCmd groups the dosing schedule commands.
var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"schedules", "s"},
	Short:   "Manage dosing schedules",
	Long: `Add, find, update and delete the times at which a user takes a dose.

Times use the format "YYYY-MM-DD HH:MM" and may be given quoted or as two
arguments.

Examples:
  medtrack schedule add 1 "2024-12-25 09:00"
  medtrack schedule add 1 2024-12-25 21:00
  medtrack schedule find --user 1
  medtrack schedule find --from "2024-12-25 00:00" --to "2024-12-25 23:59"
  medtrack schedule update 1 "2024-12-25 10:00"`,
	RunE: runScheduleList,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add USER_ID TIME",
	Short: "Add a dosing time for a user",
	Args:  rangeArgs(2, 3),
	RunE:  runScheduleAdd,
}

var scheduleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List schedules in time order",
	Args:    cobra.NoArgs,
	RunE:    runScheduleList,
}

var scheduleFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find schedules by user or time range",
	Long: `Find schedules by user or by time range. When --user is given the range
is ignored. Both range ends are inclusive.`,
	Args: cobra.NoArgs,
	RunE: runScheduleFind,
}

var scheduleUpdateCmd = &cobra.Command{
	Use:   "update ID TIME",
	Short: "Move a schedule to a new time",
	Args:  rangeArgs(2, 3),
	RunE:  runScheduleUpdate,
}

var scheduleDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a schedule",
	Args:    exactArgs(1),
	RunE:    runScheduleDelete,
}

func init() {
	scheduleFindCmd.Flags().StringVarP(&scheduleFindUser, "user", "u", "", "User ID")
	scheduleFindCmd.Flags().StringVar(&scheduleFindFrom, "from", "", "Earliest time (YYYY-MM-DD HH:MM)")
	scheduleFindCmd.Flags().StringVar(&scheduleFindTo, "to", "", "Latest time (YYYY-MM-DD HH:MM)")
	_ = scheduleFindCmd.RegisterFlagCompletionFunc("user", completeUserIDs)

	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleFindCmd)
	scheduleCmd.AddCommand(scheduleUpdateCmd)
	scheduleCmd.AddCommand(scheduleDeleteCmd)

	rootCmd.AddCommand(scheduleCmd)
}

// timeArg joins the remaining arguments so a timestamp may be passed
// unquoted as date and time.
func timeArg(field string, args []string) (time.Time, error) {
	return parser.ParseTimestamp(field, strings.Join(args, " "))
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	userID, err := argID(args, 0, "user ID")
	if err != nil {
		return err
	}
	at, err := timeArg("time", args[1:])
	if err != nil {
		return err
	}

	sc, err := rt.ScheduleRepo.Add(opContext(cmd), userID, at)
	if err != nil {
		return err
	}
	return rt.Formatter.Created("schedule", output.NewScheduleOutput(sc),
		fmt.Sprintf("Added schedule %d for user %d at %s", sc.ID, sc.UserID, output.FormatTimeShort(sc.Time)))
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	schedules, err := rt.ScheduleRepo.List(opContext(cmd))
	if err != nil {
		return err
	}
	return rt.Formatter.Schedules(schedules)
}

func runScheduleFind(cmd *cobra.Command, args []string) error {
	userID, err := parser.ParseOptionalID("user ID", scheduleFindUser)
	if err != nil {
		return err
	}
	start, err := parser.ParseOptionalTimestamp("from", scheduleFindFrom)
	if err != nil {
		return err
	}
	end, err := parser.ParseOptionalTimestamp("to", scheduleFindTo)
	if err != nil {
		return err
	}

	schedules, err := rt.ScheduleRepo.Find(opContext(cmd), model.ScheduleFilter{
		UserID: userID,
		Start:  start,
		End:    end,
	})
	if err != nil {
		return err
	}
	return rt.Formatter.Schedules(schedules)
}

func runScheduleUpdate(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "schedule ID")
	if err != nil {
		return err
	}
	at, err := timeArg("time", args[1:])
	if err != nil {
		return err
	}

	rows, err := rt.ScheduleRepo.Update(opContext(cmd), id, at)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("updated", "schedule", id, rows)
}

func runScheduleDelete(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "schedule ID")
	if err != nil {
		return err
	}
	rows, err := rt.ScheduleRepo.Delete(opContext(cmd), id)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("deleted", "schedule", id, rows)
}
