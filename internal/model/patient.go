package model

import "github.com/google/uuid"

// Patient is a reference entity created by external collaborators.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RUT       string    `db:"rut" json:"rut"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Age       *int      `db:"age" json:"age,omitempty"`
	Gender    *string   `db:"gender" json:"gender,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	BirthDate *string   `db:"birth_date" json:"birth_date,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
}
