package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/runtime"
)

// cli runs commands in-process against one database file.
type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("MEDTRACK_SUMMARY_AT", "")
	t.Setenv("MEDTRACK_WATCH_SPEC", "")
	t.Setenv("MEDTRACK_LOG_LEVEL", "")
	return &cli{t: t, db: filepath.Join(t.TempDir(), "medicationtracker.db")}
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runWithInput executes medtrack with args and returns everything written
// to stdout and stderr.
func (c *cli) runWithInput(input string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append([]string{"--db", c.db, "--color", "never"}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(c.t, closeRuntime())
	return out.String(), err
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runWithInput("", args...)
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "medtrack %s", strings.Join(args, " "))
	return out
}

// isUserError applies the same normalization as error reporting.
func isUserError(err error) bool {
	return errors.IsUserError(runtime.Normalize(err))
}

func TestUserCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("user", "add", "Alice"), "Added user 1: Alice")
	assert.Contains(t, c.mustRun("user", "add", "Bob", "Smith"), "Added user 2: Bob Smith")

	out := c.mustRun("user", "list")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob Smith")

	assert.Contains(t, c.mustRun("user", "delete", "2"), "Deleted user 2.")
	assert.Contains(t, c.mustRun("user", "delete", "42"), "No user with ID 42.")
	assert.NotContains(t, c.mustRun("user"), "Bob Smith")
}

func TestUserCommandErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("user", "delete")
	require.Error(t, err)
	assert.True(t, isUserError(err))

	_, err = c.run("user", "delete", "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidID))

	_, err = c.run("user", "add", "   ")
	require.Error(t, err)
	assert.True(t, isUserError(err))
}

func TestMedicationCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")

	assert.Contains(t, c.mustRun("med", "add", "1", "Aspirin", "100mg"), "Added medication 1: Aspirin 100mg")
	assert.Contains(t, c.mustRun("med", "add", "-", "Ibuprofen", "200mg"), "Added medication 2: Ibuprofen 200mg")

	var found struct {
		Items []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Dosage string `json:"dosage"`
			UserID int64  `json:"user_id"`
		} `json:"items"`
		Count int `json:"count"`
	}
	out := c.mustRun("--format", "json", "med", "find", "--name", "Aspirin")
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "100mg", found.Items[0].Dosage)
	assert.Equal(t, int64(1), found.Items[0].UserID)

	// Flags from the previous run must not leak into this one.
	out = c.mustRun("med", "find")
	assert.Contains(t, out, "Aspirin")
	assert.Contains(t, out, "Ibuprofen")

	assert.Contains(t, c.mustRun("med", "update", "1", "--dosage", "200mg"), "Updated medication 1.")
	out = c.mustRun("med", "list")
	assert.Contains(t, out, "Aspirin")
	assert.NotContains(t, out, "100mg")

	_, err := c.run("med", "update", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNothingToUpdate))

	_, err = c.run("med", "add", "9", "Aspirin", "100mg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingReference))

	assert.Contains(t, c.mustRun("med", "delete", "2"), "Deleted medication 2.")
}

func TestScheduleCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")
	c.mustRun("user", "add", "Bob")

	assert.Contains(t, c.mustRun("schedule", "add", "1", "2024-12-25 09:00"),
		"Added schedule 1 for user 1 at 2024-12-25 09:00")
	assert.Contains(t, c.mustRun("schedule", "add", "2", "2024-12-25", "21:00"),
		"Added schedule 2 for user 2 at 2024-12-25 21:00")

	out := c.mustRun("schedule", "find", "--user", "1")
	assert.Contains(t, out, "09:00")
	assert.NotContains(t, out, "21:00")

	out = c.mustRun("schedule", "find", "--from", "2024-12-25 12:00", "--to", "2024-12-25 23:59")
	assert.Contains(t, out, "21:00")
	assert.NotContains(t, out, "09:00")

	assert.Contains(t, c.mustRun("schedule", "update", "1", "2024-12-25 10:00"), "Updated schedule 1.")
	assert.Contains(t, c.mustRun("schedule", "list"), "2024-12-25 10:00")

	_, err := c.run("schedule", "add", "1", "2024-13-45 99:99")
	require.Error(t, err)
	assert.True(t, isUserError(err))
	assert.NotContains(t, c.mustRun("schedule", "list"), "2024-13-45")

	assert.Contains(t, c.mustRun("schedule", "delete", "2"), "Deleted schedule 2.")
}

func TestRemindCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")
	c.mustRun("med", "add", "1", "Aspirin", "100mg")

	assert.Contains(t, c.mustRun("remind", "add", "1", "2024-12-25 09:00", "take pill"),
		"Added reminder 1 at 2024-12-25 09:00")

	out := c.mustRun("remind", "find", "--time", "2024-12-25 09:00")
	assert.Contains(t, out, "take pill")

	_, err := c.run("remind", "find")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoCriteria))

	assert.Contains(t, c.mustRun("remind", "update", "1", "--message", "with food"), "Updated reminder 1.")
	out = c.mustRun("remind", "list")
	assert.Contains(t, out, "with food")
	assert.Contains(t, out, "2024-12-25 09:00")

	_, err = c.run("remind", "update", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNothingToUpdate))

	assert.Contains(t, c.mustRun("remind", "delete", "1"), "Deleted reminder 1.")
	assert.Contains(t, c.mustRun("remind", "delete", "1"), "No reminder with ID 1.")
}

func TestMalformedTimesWriteNothing(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")
	c.mustRun("med", "add", "1", "Aspirin", "100mg")
	c.mustRun("schedule", "add", "1", "2024-12-25 09:00")
	c.mustRun("remind", "add", "1", "2024-12-25 09:00", "take pill")

	schedules := c.mustRun("-f", "plain", "schedule", "list")
	reminders := c.mustRun("-f", "plain", "remind", "list")

	for _, bad := range []string{"2024-12-25 25:00", "2024-02-30 09:00", "2024-12-25T09:00", "tomorrow"} {
		for _, args := range [][]string{
			{"schedule", "update", "1", bad},
			{"remind", "add", "1", bad, "late pill"},
			{"remind", "update", "1", "--time", bad},
			{"remind", "update", "1", "--time", bad, "--message", "changed"},
		} {
			_, err := c.run(args...)
			require.Error(t, err, strings.Join(args, " "))
			assert.True(t, errors.Is(runtime.Normalize(err), errors.ErrInvalidTimestamp), strings.Join(args, " "))
		}

		assert.Equal(t, schedules, c.mustRun("-f", "plain", "schedule", "list"), bad)
		assert.Equal(t, reminders, c.mustRun("-f", "plain", "remind", "list"), bad)
	}
}

func TestDoseCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")
	c.mustRun("med", "add", "1", "Aspirin", "100mg")

	assert.Contains(t, c.mustRun("dose", "record", "1", "1"), "Recorded dose of medication 1 for user 1 at")

	var history struct {
		Items []struct {
			UserID       int64  `json:"user_id"`
			MedicationID int64  `json:"medication_id"`
			TimeTaken    string `json:"time_taken"`
		} `json:"items"`
		Count int `json:"count"`
	}
	out := c.mustRun("--format", "json", "dose", "history", "--user", "1")
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Equal(t, 1, history.Count)
	assert.Equal(t, int64(1), history.Items[0].MedicationID)

	_, err := c.run("dose", "record", "1", "7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingReference))

	_, err = c.run("user", "delete", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrReferencedByHistory))
	assert.Contains(t, c.mustRun("user", "list"), "Alice")
}

func TestAgendaCommand(t *testing.T) {
	c := newCLI(t)
	c.mustRun("user", "add", "Alice")
	c.mustRun("med", "add", "1", "Aspirin", "100mg")
	c.mustRun("schedule", "add", "1", "2024-12-25 21:00")
	c.mustRun("remind", "add", "1", "2024-12-25 09:00", "take pill")
	c.mustRun("remind", "add", "1", "2024-12-26 09:00", "next day")

	out := c.mustRun("agenda", "2024-12-25")
	assert.Contains(t, out, "Agenda for")
	assert.Contains(t, out, "take pill")
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "next day")
	assert.Less(t, strings.Index(out, "09:00"), strings.Index(out, "21:00"))

	_, err := c.run("agenda", "xyzzy")
	require.Error(t, err)
	assert.True(t, isUserError(err))
}

func TestShellFromRoot(t *testing.T) {
	c := newCLI(t)

	out, err := c.runWithInput("1\nAlice\n2\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Medication Tracker")
	assert.Contains(t, out, "Added user 1: Alice")

	out, err = c.runWithInput("99\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: invalid menu choice")
}

func TestWatchCommand(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("watch", "--test")
	assert.Contains(t, out, "Reminder watcher is running.")

	out = c.mustRun("watch", "--test", "--notify-format", "json")
	assert.Contains(t, out, `"type":"test"`)

	out = c.mustRun("watch", "--test", "--template", "{{.Title}}!")
	assert.Contains(t, out, "medtrack!")

	c.mustRun("watch", "--once")

	_, err := c.run("watch", "--notify-format", "xml")
	require.Error(t, err)
	assert.True(t, isUserError(err))

	_, err = c.run("watch", "--template", "{{.Title")
	require.Error(t, err)
	assert.True(t, isUserError(err))

	_, err = c.run("watch", "--once", "--summary-at", "25:99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = c.run("watch", "--once", "--spec", "every minute")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestCheckCommand(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("check"), "No problems found.")

	var status struct {
		Healthy bool   `json:"healthy"`
		Path    string `json:"path"`
	}
	out := c.mustRun("--format", "json", "check")
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, c.db, status.Path)
}

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, c.db+"\n", c.mustRun("config", "database"))
	out := c.mustRun("config")
	assert.Contains(t, out, "watch-spec")
	assert.Contains(t, out, "(not set)")

	_, err := c.run("config", "colour")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestGlobalFlagErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("--format", "yaml", "user", "list")
	require.Error(t, err)
	assert.True(t, isUserError(err))

	_, err = c.run("--color", "sometimes", "user", "list")
	require.Error(t, err)
	assert.True(t, isUserError(err))
}

func TestVersionCommand(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("version"), "medtrack dev")
}
