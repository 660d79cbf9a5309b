package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/validate"
)

// Med command flags.
var (
	medFindName   string
	medFindUser   string
	medUpdateName string
	medUpdateDose string
)

// medCmd groups the medication commands.
var medCmd = &cobra.Command{
	Use:     "med",
	Aliases: []string{"meds", "medication", "m"},
	Short:   "Manage medications",
	Long: `Add, find, update and delete medications.

A medication may belong to a user. Pass 0 or - as USER_ID for none.

Examples:
  medtrack med add 1 Aspirin 100mg
  medtrack med find --name Aspirin
  medtrack med update 1 --dosage 200mg
  medtrack med delete 1`,
	RunE: runMedList,
}

var medAddCmd = &cobra.Command{
	Use:   "add USER_ID NAME DOSAGE",
	Short: "Add a medication",
	Args:  exactArgs(3),
	RunE:  runMedAdd,
}

var medListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List medications",
	Args:    cobra.NoArgs,
	RunE:    runMedList,
}

var medFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find medications by exact name, user or both",
	Long: `Find medications by exact name, user or both. With no criteria every
medication is listed.`,
	Args: cobra.NoArgs,
	RunE: runMedFind,
}

var medUpdateCmd = &cobra.Command{
	Use:               "update ID",
	Short:             "Change a medication's name or dosage",
	Args:              exactArgs(1),
	ValidArgsFunction: completeMedicationIDs,
	RunE:              runMedUpdate,
}

var medDeleteCmd = &cobra.Command{
	Use:               "delete ID",
	Aliases:           []string{"rm", "remove"},
	Short:             "Delete a medication and its reminders",
	Args:              exactArgs(1),
	ValidArgsFunction: completeMedicationIDs,
	RunE:              runMedDelete,
}

func init() {
	medFindCmd.Flags().StringVarP(&medFindName, "name", "n", "", "Exact medication name")
	medFindCmd.Flags().StringVarP(&medFindUser, "user", "u", "", "User ID")
	_ = medFindCmd.RegisterFlagCompletionFunc("user", completeUserIDs)

	medUpdateCmd.Flags().StringVarP(&medUpdateName, "name", "n", "", "New name")
	medUpdateCmd.Flags().StringVarP(&medUpdateDose, "dosage", "d", "", "New dosage")

	medCmd.AddCommand(medAddCmd)
	medCmd.AddCommand(medListCmd)
	medCmd.AddCommand(medFindCmd)
	medCmd.AddCommand(medUpdateCmd)
	medCmd.AddCommand(medDeleteCmd)

	rootCmd.AddCommand(medCmd)
}

func runMedAdd(cmd *cobra.Command, args []string) error {
	var owner int64
	if a := strings.TrimSpace(args[0]); a != "0" && a != "-" {
		id, err := parser.ParseID("user ID", a)
		if err != nil {
			return err
		}
		owner = id
	}
	name := validate.SanitizeName(args[1])
	if err := validate.Name("name", name); err != nil {
		return err
	}
	dosage := validate.SanitizeName(args[2])
	if err := validate.Dosage(dosage); err != nil {
		return err
	}

	m, err := rt.MedicationRepo.Add(opContext(cmd), owner, name, dosage)
	if err != nil {
		return err
	}
	return rt.Formatter.Created("medication", m,
		fmt.Sprintf("Added medication %d: %s %s", m.ID, m.Name, m.Dosage))
}

func runMedList(cmd *cobra.Command, args []string) error {
	meds, err := rt.MedicationRepo.List(opContext(cmd))
	if err != nil {
		return err
	}
	return rt.Formatter.Medications(meds)
}

func runMedFind(cmd *cobra.Command, args []string) error {
	userID, err := parser.ParseOptionalID("user ID", medFindUser)
	if err != nil {
		return err
	}
	meds, err := rt.MedicationRepo.Find(opContext(cmd), model.MedicationFilter{
		Name:   parser.OptionalString(medFindName),
		UserID: userID,
	})
	if err != nil {
		return err
	}
	return rt.Formatter.Medications(meds)
}

func runMedUpdate(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "medication ID")
	if err != nil {
		return err
	}

	var patch model.MedicationPatch
	if cmd.Flags().Changed("name") {
		name := validate.SanitizeName(medUpdateName)
		if err := validate.Name("name", name); err != nil {
			return err
		}
		patch.Name = &name
	}
	if cmd.Flags().Changed("dosage") {
		dosage := validate.SanitizeName(medUpdateDose)
		if err := validate.Dosage(dosage); err != nil {
			return err
		}
		patch.Dosage = &dosage
	}
	if patch.IsEmpty() {
		return errors.NewUserError("nothing to update", "Pass --name, --dosage or both.").
			Because(errors.ErrNothingToUpdate)
	}

	rows, err := rt.MedicationRepo.Update(opContext(cmd), id, patch)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("updated", "medication", id, rows)
}

func runMedDelete(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "medication ID")
	if err != nil {
		return err
	}
	rows, err := rt.MedicationRepo.Delete(opContext(cmd), id)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("deleted", "medication", id, rows)
}
