package model

import (
	"time"

	"github.com/google/uuid"
)

// Encounter hour-status values observed on the wire. Anything else
// falls back to the booked appointment status.
const (
	HourStatusAssigned    = "Asignada"
	HourStatusExecuted    = "ejecutada"
	HourStatusNotExecuted = "no ejecutada"
)

// Encounter is the clinical record attached 1:1 (optional) to an
// appointment. Saved with upsert-by-appointment semantics.
type Encounter struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Appointment uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	WorkerID    uuid.UUID `db:"worker_id" json:"worker_id"`
	CenterID    uuid.UUID `db:"center_id" json:"center_id"`
	Date        string    `db:"encounter_date" json:"date"`
	Time        string    `db:"encounter_time" json:"time"`

	HourStatus      string `db:"hour_status" json:"hour_status"`
	AttentionStatus string `db:"attention_status" json:"attention_status"`
	Modality        string `db:"modality" json:"modality"`
	Activity        string `db:"activity" json:"activity"`
	DischargeType   string `db:"discharge_type" json:"discharge_type"`

	Diagnosis    string     `db:"diagnosis" json:"diagnosis"`
	DiagnosisID  *uuid.UUID `db:"diagnosis_id" json:"diagnosis_id,omitempty"`
	Observations string     `db:"observations" json:"observations"`

	GES              bool `db:"ges" json:"ges"`
	DiagnosticIntake bool `db:"diagnostic_intake" json:"diagnostic_intake"`
	TreatmentControl bool `db:"treatment_control" json:"treatment_control"`
	Discharged       bool `db:"discharged" json:"discharged"`
	CardioProgram    bool `db:"cardio_program" json:"cardio_program"`
	Morbidity        bool `db:"morbidity" json:"morbidity"`
	MentalHealth     bool `db:"mental_health" json:"mental_health"`
	WellChild        bool `db:"well_child" json:"well_child"`
	Breastfeeding    bool `db:"breastfeeding" json:"breastfeeding"`
	LactationAdvice  bool `db:"lactation_advice" json:"lactation_advice"`
	Pregnant         bool `db:"pregnant" json:"pregnant"`
	HomeVisit        bool `db:"home_visit" json:"home_visit"`
	SevereDependency bool `db:"severe_dependency" json:"severe_dependency"`
	Remote           bool `db:"remote" json:"remote"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SaveEncounterRequest is the upsert payload. Omitted categorical
// fields take the documented defaults; omitted flags default to false.
type SaveEncounterRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	CenterID      uuid.UUID `json:"center_id" binding:"required"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`

	HourStatus      string `json:"hour_status"`
	AttentionStatus string `json:"attention_status"`
	Modality        string `json:"modality"`
	Activity        string `json:"activity"`
	DischargeType   string `json:"discharge_type"`

	Diagnosis    string `json:"diagnosis"`
	Observations string `json:"observations"`

	GES              bool `json:"ges"`
	DiagnosticIntake bool `json:"diagnostic_intake"`
	TreatmentControl bool `json:"treatment_control"`
	Discharged       bool `json:"discharged"`
	CardioProgram    bool `json:"cardio_program"`
	Morbidity        bool `json:"morbidity"`
	MentalHealth     bool `json:"mental_health"`
	WellChild        bool `json:"well_child"`
	Breastfeeding    bool `json:"breastfeeding"`
	LactationAdvice  bool `json:"lactation_advice"`
	Pregnant         bool `json:"pregnant"`
	HomeVisit        bool `json:"home_visit"`
	SevereDependency bool `json:"severe_dependency"`
	Remote           bool `json:"remote"`
}
