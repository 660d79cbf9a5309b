package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
)

var doseHistoryUser string

// doseCmd groups the dosage history commands.
var doseCmd = &cobra.Command{
	Use:     "dose",
	Aliases: []string{"doses", "d"},
	Short:   "Record doses and view dosage history",
	Long: `Record that a user took a medication now, and view the history.

Dosage history is permanent: entries cannot be edited or deleted, and users
or medications with history cannot be deleted.

Examples:
  medtrack dose record 1 1
  medtrack dose history
  medtrack dose history --user 1`,
	RunE: runDoseHistory,
}

var doseRecordCmd = &cobra.Command{
	Use:   "record USER_ID MED_ID",
	Short: "Record a dose taken now",
	Args:  exactArgs(2),
	RunE:  runDoseRecord,
}

var doseHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list", "ls"},
	Short:   "Show dosage history, newest first",
	Args:    cobra.NoArgs,
	RunE:    runDoseHistory,
}

func init() {
	doseHistoryCmd.Flags().StringVarP(&doseHistoryUser, "user", "u", "", "Only this user's doses")
	_ = doseHistoryCmd.RegisterFlagCompletionFunc("user", completeUserIDs)

	doseCmd.AddCommand(doseRecordCmd)
	doseCmd.AddCommand(doseHistoryCmd)

	rootCmd.AddCommand(doseCmd)
}

func runDoseRecord(cmd *cobra.Command, args []string) error {
	userID, err := argID(args, 0, "user ID")
	if err != nil {
		return err
	}
	medID, err := argID(args, 1, "medication ID")
	if err != nil {
		return err
	}

	e, err := rt.DoseRepo.Record(opContext(cmd), userID, medID)
	if err != nil {
		return err
	}
	return rt.Formatter.Created("dose", output.NewDoseOutput(e),
		fmt.Sprintf("Recorded dose of medication %d for user %d at %s",
			e.MedicationID, e.UserID, output.FormatTime(e.TimeTaken)))
}

func runDoseHistory(cmd *cobra.Command, args []string) error {
	userID, err := parser.ParseOptionalID("user ID", doseHistoryUser)
	if err != nil {
		return err
	}

	ctx := opContext(cmd)
	var entries []*model.DoseEntry
	if userID != nil {
		entries, err = rt.DoseRepo.ListByUser(ctx, *userID)
	} else {
		entries, err = rt.DoseRepo.List(ctx)
	}
	if err != nil {
		return err
	}
	return rt.Formatter.Doses(entries)
}
