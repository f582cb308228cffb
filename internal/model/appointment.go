package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the closed set of statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusBooked, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Appointment is a booked visit for a patient with a worker at a
// center. Dates travel as "YYYY-MM-DD", times as "HH:MM:SS".
// Appointments are never deleted; cancellation is a status change.
type Appointment struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	WorkerID     uuid.UUID         `db:"worker_id" json:"worker_id"`
	CenterID     uuid.UUID         `db:"center_id" json:"center_id"`
	Date         string            `db:"visit_date" json:"date"`
	Time         string            `db:"visit_time" json:"time"`
	Type         string            `db:"consultation_type" json:"consultation_type"`
	RecordNumber *string           `db:"record_number" json:"record_number,omitempty"`
	FolderNumber *string           `db:"folder_number" json:"folder_number,omitempty"`
	Status       AppointmentStatus `db:"status" json:"status"`
	EncounterID  *uuid.UUID        `db:"encounter_id" json:"encounter_id,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	WorkerID     uuid.UUID `json:"worker_id" binding:"required"`
	CenterID     uuid.UUID `json:"center_id" binding:"required"`
	Date         string    `json:"date" binding:"required"`
	Time         string    `json:"time" binding:"required"`
	Type         string    `json:"consultation_type"`
	RecordNumber *string   `json:"record_number"`
	FolderNumber *string   `json:"folder_number"`
}

// AppointmentPatch carries only the fields the caller wants changed.
// Nil means "leave as is".
type AppointmentPatch struct {
	PatientID    *uuid.UUID         `json:"patient_id"`
	WorkerID     *uuid.UUID         `json:"worker_id"`
	CenterID     *uuid.UUID         `json:"center_id"`
	Date         *string            `json:"date"`
	Time         *string            `json:"time"`
	Type         *string            `json:"consultation_type"`
	RecordNumber *string            `json:"record_number"`
	FolderNumber *string            `json:"folder_number"`
	Status       *AppointmentStatus `json:"status"`
}

// TouchesSlot reports whether the patch changes any part of the
// (worker, date, time) booking key.
func (p *AppointmentPatch) TouchesSlot() bool {
	return p.WorkerID != nil || p.Date != nil || p.Time != nil
}

// AppointmentFilters scope list queries. Nil fields are not applied.
type AppointmentFilters struct {
	WorkerID *uuid.UUID
	CenterID *uuid.UUID
	Date     *string
	Status   *AppointmentStatus
}

// AgendaRow is a daily-agenda list entry joined with patient and
// encounter data. Encounter columns are null when no encounter exists.
type AgendaRow struct {
	AppointmentID uuid.UUID         `db:"appointment_id" json:"appointment_id"`
	Date          string            `db:"visit_date" json:"date"`
	Time          string            `db:"visit_time" json:"time"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Type          string            `db:"consultation_type" json:"consultation_type"`
	RecordNumber  *string           `db:"record_number" json:"record_number,omitempty"`
	FolderNumber  *string           `db:"folder_number" json:"folder_number,omitempty"`

	PatientRUT      string  `db:"patient_rut" json:"patient_rut"`
	PatientName     string  `db:"patient_name" json:"patient_name"`
	PatientLastName string  `db:"patient_last_name" json:"patient_last_name"`
	PatientPhone    *string `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientAge      *int    `db:"patient_age" json:"patient_age,omitempty"`
	PatientGender   *string `db:"patient_gender" json:"patient_gender,omitempty"`

	HourStatus      *string `db:"hour_status" json:"hour_status,omitempty"`
	AttentionStatus *string `db:"attention_status" json:"attention_status,omitempty"`
	Modality        *string `db:"modality" json:"modality,omitempty"`
	Diagnosis       *string `db:"diagnosis" json:"diagnosis,omitempty"`
}

// AppointmentDetail is the full single-appointment view joined across
// patient, worker, center and (optionally) the clinical encounter.
type AppointmentDetail struct {
	Appointment Appointment `json:"appointment"`
	Patient     Patient     `json:"patient"`
	Worker      Worker      `json:"worker"`
	Center      Center      `json:"center"`
	Encounter   *Encounter  `json:"encounter,omitempty"`
}
