package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/model"
)

const workerColumns = `id, rut, first_name, last_name, role, specialty, password_hash, active`

func (r *workerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1 AND active = true`

	var worker model.Worker
	err := r.db.GetContext(ctx, &worker, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) GetByRUT(ctx context.Context, rut string) (*model.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE rut = $1 AND active = true`

	var worker model.Worker
	err := r.db.GetContext(ctx, &worker, query, rut)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker by rut: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) ListHealthWorkers(ctx context.Context, centerID *uuid.UUID) ([]*model.Worker, error) {
	query := `
		SELECT ` + workerColumns + `
		FROM workers
		WHERE role = 'health-worker' AND active = true
	`
	args := []interface{}{}
	if centerID != nil {
		query += ` AND id IN (
			SELECT worker_id FROM worker_centers
			WHERE center_id = $1 AND active = true
		)`
		args = append(args, *centerID)
	}
	query += " ORDER BY first_name, last_name"

	var workers []*model.Worker
	err := r.db.SelectContext(ctx, &workers, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list health workers: %w", err)
	}
	return workers, nil
}

func (r *workerRepository) ListBySpecialty(ctx context.Context, specialty string) ([]*model.Worker, error) {
	query := `
		SELECT ` + workerColumns + `
		FROM workers
		WHERE role = 'health-worker'
		AND active = true
		AND specialty = $1
		ORDER BY first_name, last_name
	`
	var workers []*model.Worker
	err := r.db.SelectContext(ctx, &workers, query, specialty)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers by specialty: %w", err)
	}
	return workers, nil
}

func (r *workerRepository) ListSpecialties(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT specialty
		FROM workers
		WHERE role = 'health-worker'
		AND active = true
		AND specialty IS NOT NULL
		ORDER BY specialty
	`
	var specialties []string
	err := r.db.SelectContext(ctx, &specialties, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}
