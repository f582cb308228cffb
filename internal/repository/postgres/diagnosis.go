package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agendasalud/scheduling-api/internal/model"
)

func (r *diagnosisRepository) GetByCode(ctx context.Context, code string) (*model.Diagnosis, error) {
	query := `SELECT id, name, icd10_code, category FROM diagnoses WHERE icd10_code = $1`

	var diagnosis model.Diagnosis
	err := r.db.GetContext(ctx, &diagnosis, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnosis by code: %w", err)
	}
	return &diagnosis, nil
}

// SearchByName performs a partial case-insensitive match, shortest
// name first so the most specific entries surface.
func (r *diagnosisRepository) SearchByName(ctx context.Context, term string, limit int) ([]*model.Diagnosis, error) {
	query := `
		SELECT id, name, icd10_code, category
		FROM diagnoses
		WHERE name ILIKE $1
		ORDER BY length(name), name
		LIMIT $2
	`
	var diagnoses []*model.Diagnosis
	err := r.db.SelectContext(ctx, &diagnoses, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search diagnoses: %w", err)
	}
	return diagnoses, nil
}
