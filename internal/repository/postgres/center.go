package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/model"
)

func (r *centerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Center, error) {
	query := `SELECT id, name, address, phone, active FROM centers WHERE id = $1 AND active = true`

	var center model.Center
	err := r.db.GetContext(ctx, &center, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get center: %w", err)
	}
	return &center, nil
}

func (r *centerRepository) List(ctx context.Context) ([]*model.Center, error) {
	query := `SELECT id, name, address, phone, active FROM centers WHERE active = true ORDER BY name`

	var centers []*model.Center
	err := r.db.SelectContext(ctx, &centers, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	return centers, nil
}
