package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/validate"
)

// userCmd groups the user commands.
var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users", "u"},
	Short:   "Manage users",
	Long: `Add, list and delete the people whose medications are tracked.

Deleting a user also deletes their medications and schedules. Users with
recorded doses cannot be deleted.

Examples:
  medtrack user add Alice
  medtrack user list
  medtrack user delete 1`,
	RunE: runUserList,
}

var userAddCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add a user",
	Args:  rangeArgs(1, 8),
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	Args:    cobra.NoArgs,
	RunE:    runUserList,
}

var userDeleteCmd = &cobra.Command{
	Use:               "delete ID",
	Aliases:           []string{"rm", "remove"},
	Short:             "Delete a user",
	Args:              exactArgs(1),
	ValidArgsFunction: completeUserIDs,
	RunE:              runUserDelete,
}

func init() {
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)

	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	name := validate.SanitizeName(strings.Join(args, " "))
	if err := validate.Name("name", name); err != nil {
		return err
	}

	u, err := rt.UserRepo.Add(opContext(cmd), name)
	if err != nil {
		return err
	}
	return rt.Formatter.Created("user", u, fmt.Sprintf("Added user %d: %s", u.ID, u.Name))
}

func runUserList(cmd *cobra.Command, args []string) error {
	users, err := rt.UserRepo.List(opContext(cmd))
	if err != nil {
		return err
	}
	return rt.Formatter.Users(users)
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "user ID")
	if err != nil {
		return err
	}
	rows, err := rt.UserRepo.Delete(opContext(cmd), id)
	if err != nil {
		return err
	}
	return rt.Formatter.Change("deleted", "user", id, rows)
}
