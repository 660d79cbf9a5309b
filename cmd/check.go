package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/storage"
)

// checkCmd verifies the database file.
var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"doctor"},
	Short:   "Check the database for corruption and missing tables",
	Long: `Run SQLite's integrity and foreign key checks, confirm every table
exists and report free disk space. Exits with status 1 when a problem is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	status, err := rt.DB.CheckHealth(opContext(cmd))
	if err != nil {
		return err
	}

	if rt.IsJSON() {
		if err := rt.Formatter.JSON(status); err != nil {
			return err
		}
	} else {
		printHealth(rt.CLIFormatter(), status)
	}

	if !status.Healthy {
		return errors.NewSystemErrorWithOp("check", "database check failed", errors.ErrDatabaseCorrupted)
	}
	return nil
}

func printHealth(c *output.CLIFormatter, s *storage.HealthStatus) {
	c.Title("Database " + s.Path)
	if s.FreeBytes > 0 {
		c.Muted(fmt.Sprintf("%.1f MiB free", float64(s.FreeBytes)/(1<<20)))
	}
	if s.DiskWarning != "" {
		c.Warning(s.DiskWarning)
	}
	if len(s.MissingTables) > 0 {
		c.Error("Missing tables: " + strings.Join(s.MissingTables, ", "))
	}
	for _, p := range s.Problems {
		c.Error(p)
	}
	if s.Healthy {
		c.Success("No problems found.")
	}
}
