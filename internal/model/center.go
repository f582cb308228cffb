package model

import "github.com/google/uuid"

// Center is a health center where workers attend patients.
type Center struct {
	ID      uuid.UUID `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	Address *string   `db:"address" json:"address,omitempty"`
	Phone   *string   `db:"phone" json:"phone,omitempty"`
	Active  bool      `db:"active" json:"active"`
}
