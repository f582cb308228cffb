package model

import "github.com/google/uuid"

const (
	RoleScheduler    = "scheduler"
	RoleHealthWorker = "health-worker"
)

// Worker is a reference entity: looked up, never mutated by the
// scheduling core.
type Worker struct {
	ID           uuid.UUID `db:"id" json:"id"`
	RUT          string    `db:"rut" json:"rut"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         string    `db:"role" json:"role"`
	Specialty    *string   `db:"specialty" json:"specialty,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
}
