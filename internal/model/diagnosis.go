package model

import "github.com/google/uuid"

// Diagnosis is a coded (ICD-10) diagnosis reference entry.
type Diagnosis struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Code     *string   `db:"icd10_code" json:"icd10_code,omitempty"`
	Category *string   `db:"category" json:"category,omitempty"`
}

// DisplayText renders the "CODE - NAME" form used by the UI and
// accepted back by the diagnosis resolver.
func (d *Diagnosis) DisplayText() string {
	if d.Code != nil && *d.Code != "" {
		return *d.Code + " - " + d.Name
	}
	return d.Name
}
