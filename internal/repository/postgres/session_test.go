package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRows = []string{
	"id", "worker_id", "center_id", "session_date",
	"start_time", "end_time", "active", "created_at",
}

func TestSessionUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	workerID := uuid.New()
	centerID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO work_sessions").
		WithArgs(sqlmock.AnyArg(), workerID, centerID, "2026-03-02", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(sessionRows).AddRow(
			id.String(), workerID.String(), centerID.String(), "2026-03-02",
			"09:00:00", nil, true, time.Now(),
		))

	session, err := repo.Upsert(context.Background(), workerID, centerID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.True(t, session.Active)
	require.NotNil(t, session.StartTime)
	assert.Equal(t, "09:00:00", *session.StartTime)
	assert.Nil(t, session.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCloseMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	id := uuid.New()
	mock.ExpectExec("UPDATE work_sessions").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Close(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseStaleBefore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec("UPDATE work_sessions").
		WithArgs("2026-03-02").
		WillReturnResult(sqlmock.NewResult(0, 4))

	closed, err := repo.CloseStaleBefore(context.Background(), "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(4), closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
