package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendasalud/scheduling-api/internal/model"
)

func TestSaveWithStatusInsertsNewEncounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEncounterRepository(db)

	appointmentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM encounters").
		WithArgs(appointmentID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO encounters").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	encounter := &model.Encounter{
		Appointment: appointmentID,
		PatientID:   uuid.New(),
		WorkerID:    uuid.New(),
		CenterID:    uuid.New(),
		Date:        "2026-03-02",
		Time:        "10:00:00",
		HourStatus:  "ejecutada",
	}
	err := repo.SaveWithStatus(context.Background(), encounter, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, encounter.ID, "insert assigns the id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithStatusUpdatesExistingEncounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEncounterRepository(db)

	appointmentID := uuid.New()
	existingID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM encounters").
		WithArgs(appointmentID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existingID.String()))
	mock.ExpectExec("UPDATE encounters").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	encounter := &model.Encounter{Appointment: appointmentID}
	err := repo.SaveWithStatus(context.Background(), encounter, model.AppointmentStatusBooked)
	require.NoError(t, err)
	assert.Equal(t, existingID, encounter.ID, "update reuses the existing row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithStatusRollsBackOnMissingAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEncounterRepository(db)

	appointmentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM encounters").
		WithArgs(appointmentID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO encounters").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SaveWithStatus(context.Background(), &model.Encounter{Appointment: appointmentID}, model.AppointmentStatusBooked)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
