package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/model"
)

const sessionColumns = `
	id, worker_id, center_id,
	session_date::text AS session_date,
	start_time::text AS start_time,
	end_time::text AS end_time,
	active, created_at
`

// Upsert opens or reactivates the session for (worker, center, date).
// The uniqueness constraint on the composite key resolves concurrent
// logins; the start time is only set once, on first creation.
func (r *sessionRepository) Upsert(ctx context.Context, workerID, centerID uuid.UUID, date string) (*model.WorkSession, error) {
	query := `
		INSERT INTO work_sessions (id, worker_id, center_id, session_date, start_time, active, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIME, true, $5)
		ON CONFLICT (worker_id, center_id, session_date)
		DO UPDATE SET
			active = true,
			start_time = COALESCE(work_sessions.start_time, CURRENT_TIME)
		RETURNING ` + sessionColumns + `
	`
	var session model.WorkSession
	err := r.db.GetContext(ctx, &session, query, uuid.New(), workerID, centerID, date, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert work session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) GetActive(ctx context.Context, workerID, centerID uuid.UUID, date string) (*model.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE worker_id = $1
		AND center_id = $2
		AND session_date = $3
		AND active = true
	`
	var session model.WorkSession
	err := r.db.GetContext(ctx, &session, query, workerID, centerID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return &session, nil
}

// Close ends the session. Closing an already-closed session leaves the
// original end time in place.
func (r *sessionRepository) Close(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE work_sessions
		SET active = false,
			end_time = COALESCE(end_time, CURRENT_TIME)
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForWorker supports start-only, end-only and closed date ranges.
func (r *sessionRepository) ListForWorker(ctx context.Context, workerID uuid.UUID, dateRange model.SessionRange) ([]*model.WorkSessionRow, error) {
	query := `
		SELECT s.id, s.worker_id, s.center_id,
			s.session_date::text AS session_date,
			s.start_time::text AS start_time,
			s.end_time::text AS end_time,
			s.active, s.created_at,
			c.name AS center_name
		FROM work_sessions s
		JOIN centers c ON s.center_id = c.id
		WHERE s.worker_id = $1
	`
	args := []interface{}{workerID}
	argCount := 2

	if dateRange.From != "" {
		query += fmt.Sprintf(" AND s.session_date >= $%d", argCount)
		args = append(args, dateRange.From)
		argCount++
	}
	if dateRange.To != "" {
		query += fmt.Sprintf(" AND s.session_date <= $%d", argCount)
		args = append(args, dateRange.To)
		argCount++
	}

	query += " ORDER BY s.session_date DESC, s.start_time DESC"

	var sessions []*model.WorkSessionRow
	err := r.db.SelectContext(ctx, &sessions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// CloseStaleBefore ends sessions left active on dates before the given
// one. Used by the janitor worker.
func (r *sessionRepository) CloseStaleBefore(ctx context.Context, date string) (int64, error) {
	query := `
		UPDATE work_sessions
		SET active = false,
			end_time = COALESCE(end_time, '23:59:59')
		WHERE active = true
		AND session_date < $1
	`
	result, err := r.db.ExecContext(ctx, query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
