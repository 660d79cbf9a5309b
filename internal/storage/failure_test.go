package storage

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
)

func setupMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewFromSQL(sqlDB), mock
}

func TestStorageFailuresAreSystemErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("list_users", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT id, name FROM user").WillReturnError(stderrors.New("database is locked"))

		_, err := NewUserRepo(db).List(ctx)
		require.Error(t, err)
		se, ok := errors.AsSystemError(err)
		require.True(t, ok)
		assert.Equal(t, "view users", se.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disk_full_on_insert", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec("INSERT INTO medication").
			WillReturnError(stderrors.New("database or disk is full (13)"))

		_, err := NewMedicationRepo(db).Add(ctx, 1, "Aspirin", "100mg")
		require.Error(t, err)
		assert.True(t, errors.IsSystemError(err))
		assert.True(t, stderrors.Is(err, errors.ErrDiskFull))
	})

	t.Run("update_failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec("UPDATE reminder SET message = \\? WHERE id = \\?").
			WithArgs("x", int64(3)).
			WillReturnError(stderrors.New("disk I/O error"))

		msg := "x"
		_, err := NewReminderRepo(db).Update(ctx, 3, model.ReminderPatch{Message: &msg})
		require.Error(t, err)
		assert.Equal(t, errors.CategorySystem, errors.Classify(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed_stored_time", func(t *testing.T) {
		db, mock := setupMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "user_id", "time"}).AddRow(1, 1, "yesterday")
		mock.ExpectQuery("SELECT id, user_id, time FROM schedule").WillReturnRows(rows)

		_, err := NewScheduleRepo(db).List(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsSystemError(err))
	})

	t.Run("dose_rolls_back_on_insert_failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM user").WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("SELECT id FROM medication").WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec("INSERT INTO dosage_history").WillReturnError(stderrors.New("database is locked"))
		mock.ExpectRollback()

		repo := NewDoseRepo(db)
		repo.SetClock(func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local) })
		_, err := repo.Record(ctx, 1, 2)
		require.Error(t, err)
		assert.True(t, errors.IsSystemError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBuildsSetListFromSuppliedFields(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec("UPDATE medication SET name = \\?, dosage = \\? WHERE id = \\?").
		WithArgs("Aspirin", "200mg", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	name, dosage := "Aspirin", "200mg"
	n, err := NewMedicationRepo(db).Update(context.Background(), 5,
		model.MedicationPatch{Name: &name, Dosage: &dosage})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
