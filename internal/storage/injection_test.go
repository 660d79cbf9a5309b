package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/model"
)

// Hostile text is stored and matched literally.
func TestTextIsNeverInterpolated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	meds := NewMedicationRepo(db)
	reminders := NewReminderRepo(db)

	inputs := []string{
		"'; DROP TABLE user;--",
		"Robert'); DROP TABLE medication;--",
		"' OR '1'='1",
		`"quoted" \backslash`,
		"100% _wildcard_",
	}

	for _, in := range inputs {
		u, err := users.Add(ctx, in)
		require.NoError(t, err)
		got, err := users.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, in, got.Name)

		m, err := meds.Add(ctx, u.ID, in, in)
		require.NoError(t, err)
		_, err = reminders.Add(ctx, m.ID, minute(t, "2024-12-25 09:00"), in)
		require.NoError(t, err)
	}

	missing, err := db.MissingTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	found, err := meds.Find(ctx, model.MedicationFilter{Name: ptr("' OR '1'='1")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "' OR '1'='1", found[0].Name)

	found, err = meds.Find(ctx, model.MedicationFilter{Name: ptr("100%")})
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := reminders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(inputs))
}
