package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/storage"
)

type harness struct {
	stores Stores
	out    bytes.Buffer
	prompt bytes.Buffer
	format output.Format
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &harness{
		stores: Stores{
			Users:       storage.NewUserRepo(db),
			Medications: storage.NewMedicationRepo(db),
			Schedules:   storage.NewScheduleRepo(db),
			Reminders:   storage.NewReminderRepo(db),
			Doses:       storage.NewDoseRepo(db),
		},
		format: output.FormatCLI,
	}
}

// run feeds the script lines to a fresh shell and returns its error.
func (h *harness) run(t *testing.T, lines ...string) error {
	t.Helper()
	f := &output.Formatter{Writer: &h.out, Format: h.format, ColorMode: output.ColorNever}
	script := strings.Join(lines, "\n")
	if len(lines) > 0 {
		script += "\n"
	}
	return New(strings.NewReader(script), &h.prompt, f, h.stores).Run(context.Background())
}

// =============================================================================
// Loop Tests
// =============================================================================

func TestRunExitsOnZero(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t, "0"))

	assert.Contains(t, h.prompt.String(), "Medication Tracker")
	assert.Contains(t, h.prompt.String(), " 1 Add user")
	assert.Contains(t, h.prompt.String(), "20 View dosage history")
	assert.Contains(t, h.prompt.String(), " 0 Exit")
	assert.Empty(t, h.out.String())
}

func TestRunExitsOnEOF(t *testing.T) {
	h := setupHarness(t)
	assert.NoError(t, h.run(t))
}

func TestRunEOFDuringOperation(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t, "4", "1"))

	meds, err := h.stores.Medications.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, meds)
}

func TestRunCancelledContext(t *testing.T) {
	h := setupHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &output.Formatter{Writer: &h.out, Format: output.FormatCLI}
	err := New(strings.NewReader("2\n"), &h.prompt, f, h.stores).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSurvivesBadInput(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"abc",
		"99",
		"9", "1", "2024-13-45 99:99",
		"3", "not-a-number",
		"13",
		"0",
	))

	prompt := h.prompt.String()
	assert.Contains(t, prompt, "Error: invalid menu choice: 'abc'")
	assert.Contains(t, prompt, "Error: invalid menu choice: '99'")
	assert.Contains(t, prompt, "Error: invalid time: '2024-13-45 99:99'")
	assert.Contains(t, prompt, "Error: invalid user ID: 'not-a-number'")
	assert.Contains(t, h.out.String(), "No schedules found.")
}

func TestRunSurvivesOversizedLines(t *testing.T) {
	h := setupHarness(t)
	huge := strings.Repeat("x", MaxLineLength+10)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		huge,
		"14", "1", "2024-12-25 09:00", huge,
		"14", "1", "2024-12-25 10:00", strings.Repeat("y", 70000),
		"14", "1", "2024-12-25 11:00", "take pill",
		"0",
	))

	prompt := h.prompt.String()
	assert.Equal(t, 2, strings.Count(prompt, "Error: input line too long"))
	assert.Contains(t, prompt, "Error: message too long")

	reminders, err := h.stores.Reminders.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "take pill", reminders[0].Message)
}

func TestMalformedTimesWriteNothing(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"9", "1", "2024-12-25 09:00",
		"14", "1", "2024-12-25 09:00", "take pill",
		"0",
	))
	ctx := context.Background()
	schedulesBefore, err := h.stores.Schedules.List(ctx)
	require.NoError(t, err)
	remindersBefore, err := h.stores.Reminders.List(ctx)
	require.NoError(t, err)

	for _, bad := range []string{"2024-12-25 25:00", "2024-02-30 09:00", "2024-12-25T09:00", "soon"} {
		h.prompt.Reset()
		require.NoError(t, h.run(t,
			"10", "1", bad,
			"14", "1", bad, "late pill",
			"15", "1", bad, "",
			"15", "1", bad, "changed",
			"0",
		))
		assert.Equal(t, 4, strings.Count(h.prompt.String(), "Error: invalid time"), bad)

		schedules, err := h.stores.Schedules.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, schedulesBefore, schedules, bad)
		reminders, err := h.stores.Reminders.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, remindersBefore, reminders, bad)
	}
}

// =============================================================================
// Scenario Tests
// =============================================================================

func TestAddUserAndMedication(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"8",
		"0",
	))

	out := h.out.String()
	assert.Contains(t, out, "Added user 1: Alice")
	assert.Contains(t, out, "Added medication 1: Aspirin 100mg")
	assert.Contains(t, out, "1   Aspirin  100mg   1")
}

func TestAddMedicationWithoutOwner(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t, "4", "", "Ibuprofen", "200mg", "0"))

	meds, err := h.stores.Medications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, int64(0), meds[0].UserID)
}

func TestUpdateMedicationPartial(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"5", "1", "", "200mg",
		"5", "1", "", "",
		"0",
	))

	meds, err := h.stores.Medications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.Equal(t, "200mg", meds[0].Dosage)

	assert.Contains(t, h.out.String(), "Updated medication 1.")
	assert.Contains(t, h.prompt.String(), "Error: nothing to update")
}

func TestUpdateMedicationSanitizesInput(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"5", "1", "Asp\x07irin\x1b[31m", " 200\x00mg ",
		"5", "1", "\x07\x1b", "",
		"0",
	))

	meds, err := h.stores.Medications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Aspirin[31m", meds[0].Name)
	assert.Equal(t, "200mg", meds[0].Dosage)
	for _, r := range meds[0].Name + meds[0].Dosage {
		assert.False(t, unicode.IsControl(r), "control character %q stored", r)
	}
	assert.Contains(t, h.prompt.String(), "Error: name cannot be empty")
}

func TestDeleteMissingID(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t, "7", "42", "17", "9", "0"))

	assert.Contains(t, h.out.String(), "No medication with ID 42.")
	assert.Contains(t, h.out.String(), "No reminder with ID 9.")
	assert.NotContains(t, h.prompt.String(), "Error:")
}

func TestScheduleAndReminderScenario(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"9", "1", "2024-12-25 09:00",
		"14", "1", "2024-12-25 09:00", "take pill",
		"11", "1", "", "",
		"16", "1", "2024-12-25 09:00",
		"0",
	))

	out := h.out.String()
	assert.Contains(t, out, "Added schedule 1 for user 1 at 2024-12-25 09:00")
	assert.Contains(t, out, "Added reminder 1 at 2024-12-25 09:00")
	assert.Contains(t, out, "take pill")
}

func TestFindSchedulesByRange(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"9", "1", "2024-12-24 09:00",
		"9", "1", "2024-12-25 09:00",
		"0",
	))
	h.out.Reset()

	h.format = output.FormatPlain
	require.NoError(t, h.run(t, "11", "", "2024-12-25 00:00", "2024-12-25 23:59", "0"))
	assert.Equal(t, "2\t1\t2024-12-25 09:00\n", h.out.String())
}

func TestFindRemindersWithoutCriteria(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t, "16", "", "", "0"))
	assert.Contains(t, h.prompt.String(), "Error: provide at least one search criterion")
}

func TestRecordDose(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"19", "1", "1",
		"19", "5", "1",
		"20", "",
		"0",
	))

	assert.Contains(t, h.out.String(), "Recorded dose of medication 1 for user 1")
	assert.Contains(t, h.prompt.String(), "Error: no user with ID: '5'")

	entries, err := h.stores.Doses.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteUserBlockedByHistory(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.run(t,
		"1", "Alice",
		"4", "1", "Aspirin", "100mg",
		"19", "1", "1",
		"3", "1",
		"2",
		"0",
	))

	assert.Contains(t, h.prompt.String(), "referenced by dosage history")
	assert.Contains(t, h.out.String(), "Alice")
}

func TestJSONOutput(t *testing.T) {
	h := setupHarness(t)
	h.format = output.FormatJSON
	require.NoError(t, h.run(t, "1", "Alice", "0"))

	var resp output.CreatedResponse
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &resp))
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, "user", resp.Entity)
}
