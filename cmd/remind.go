package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/validate"
)

// Remind command flags.
var (
	remindFindMed       string
	remindFindTime      string
	remindUpdateTime    string
	remindUpdateMessage string
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind",
	Aliases: []string{"reminder", "reminders", "r"},
	Short:   "Manage medication reminders",
	Long: `Create and manage one-off reminders attached to a medication.

'medtrack watch' prints each reminder when its time arrives.

Examples:
  medtrack remind add 1 "2024-12-25 09:00" "take pill"
  medtrack remind find --med 1
  medtrack remind find --time "2024-12-25 09:00"
  medtrack remind update 1 --message "take with food"
  medtrack remind delete 1`,
	RunE: runRemindList,
}

var remindAddCmd = &cobra.Command{
	Use:               "add MED_ID TIME [MESSAGE]",
	Short:             "Add a reminder",
	Args:              rangeArgs(2, 3),
	ValidArgsFunction: completeMedicationIDs,
	RunE:              runRemindAdd,
}

// remindListCmd lists reminders.
var remindListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reminders in time order",
	Args:    cobra.NoArgs,
	RunE:    runRemindList,
}

var remindFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find reminders by medication, exact time or both",
	Args:  cobra.NoArgs,
	RunE:  runRemindFind,
}

var remindUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a reminder's time or message",
	Args:  exactArgs(1),
	RunE:  runRemindUpdate,
}

// remindDeleteCmd deletes a reminder.
var remindDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a reminder",
	Args:    exactArgs(1),
	RunE:    runRemindDelete,
}

func init() {
	remindFindCmd.Flags().StringVar(&remindFindMed, "med", "", "Medication ID")
	remindFindCmd.Flags().StringVar(&remindFindTime, "time", "", "Exact time (YYYY-MM-DD HH:MM)")
	_ = remindFindCmd.RegisterFlagCompletionFunc("med", completeMedicationIDs)

	remindUpdateCmd.Flags().StringVar(&remindUpdateTime, "time", "", "New time (YYYY-MM-DD HH:MM)")
	remindUpdateCmd.Flags().StringVarP(&remindUpdateMessage, "message", "m", "", "New message")

	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindFindCmd)
	remindCmd.AddCommand(remindUpdateCmd)
	remindCmd.AddCommand(remindDeleteCmd)

	rootCmd.AddCommand(remindCmd)
}

// runRemindAdd handles creating a new reminder.
func runRemindAdd(cmd *cobra.Command, args []string) error {
	medID, err := argID(args, 0, "medication ID")
	if err != nil {
		return err
	}
	at, err := parser.ParseTimestamp("time", args[1])
	if err != nil {
		return err
	}

	var msg string
	if len(args) > 2 {
		msg = validate.SanitizeMessage(args[2])
		if err := validate.Message(msg); err != nil {
			return err
		}
	}

	r, err := rt.ReminderRepo.Add(opContext(cmd), medID, at, msg)
	if err != nil {
		return err
	}
	return rt.Formatter.Created("reminder", output.NewReminderOutput(r),
		fmt.Sprintf("Added reminder %d at %s", r.ID, output.FormatTimeShort(r.Time)))
}

// runRemindList handles listing reminders.
func runRemindList(cmd *cobra.Command, args []string) error {
	reminders, err := rt.ReminderRepo.List(opContext(cmd))
	if err != nil {
		return err
	}
	return rt.Formatter.Reminders(reminders)
}

func runRemindFind(cmd *cobra.Command, args []string) error {
	medID, err := parser.ParseOptionalID("medication ID", remindFindMed)
	if err != nil {
		return err
	}
	at, err := parser.ParseOptionalTimestamp("time", remindFindTime)
	if err != nil {
		return err
	}

	reminders, err := rt.ReminderRepo.Find(opContext(cmd), model.ReminderFilter{MedicationID: medID, Time: at})
	if err != nil {
		return err
	}
	return rt.Formatter.Reminders(reminders)
}

func runRemindUpdate(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "reminder ID")
	if err != nil {
		return err
	}

	var patch model.ReminderPatch
	if cmd.Flags().Changed("time") {
		at, err := parser.ParseTimestamp("time", remindUpdateTime)
		if err != nil {
			return err
		}
		patch.Time = &at
	}
	if cmd.Flags().Changed("message") {
		msg := validate.SanitizeMessage(remindUpdateMessage)
		if err := validate.Message(msg); err != nil {
			return err
		}
		patch.Message = &msg
	}
	if patch.IsEmpty() {
		return errors.NewUserError("nothing to update", "Pass --time, --message or both.").
			Because(errors.ErrNothingToUpdate)
	}

	rows, err := rt.ReminderRepo.Update(opContext(cmd), id, patch)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("updated", "reminder", id, rows)
}

// runRemindDelete handles deleting a reminder.
func runRemindDelete(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "reminder ID")
	if err != nil {
		return err
	}
	rows, err := rt.ReminderRepo.Delete(opContext(cmd), id)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("deleted", "reminder", id, rows)
}
