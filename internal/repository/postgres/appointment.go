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

const appointmentColumns = `
	id, patient_id, worker_id, center_id,
	visit_date::text AS visit_date, visit_time::text AS visit_time,
	consultation_type, record_number, folder_number, status,
	encounter_id, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, worker_id, center_id,
			visit_date, visit_time, consultation_type,
			record_number, folder_number, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.WorkerID,
		appointment.CenterID,
		appointment.Date,
		appointment.Time,
		appointment.Type,
		appointment.RecordNumber,
		appointment.FolderNumber,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, id uuid.UUID, patch *model.AppointmentPatch) error {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.PatientID != nil {
		addSet("patient_id", *patch.PatientID)
	}
	if patch.WorkerID != nil {
		addSet("worker_id", *patch.WorkerID)
	}
	if patch.CenterID != nil {
		addSet("center_id", *patch.CenterID)
	}
	if patch.Date != nil {
		addSet("visit_date", *patch.Date)
	}
	if patch.Time != nil {
		addSet("visit_time", *patch.Time)
	}
	if patch.Type != nil {
		addSet("consultation_type", *patch.Type)
	}
	if patch.RecordNumber != nil {
		addSet("record_number", *patch.RecordNumber)
	}
	if patch.FolderNumber != nil {
		addSet("folder_number", *patch.FolderNumber)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}

	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE appointments SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(", updated_at = $%d WHERE id = $%d", argCount, argCount+1)
	args = append(args, time.Now(), id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

func (r *appointmentRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
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

// List applies any non-empty subset of the filters, newest first.
func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argCount)
		args = append(args, *filters.WorkerID)
		argCount++
	}
	if filters.CenterID != nil {
		query += fmt.Sprintf(" AND center_id = $%d", argCount)
		args = append(args, *filters.CenterID)
		argCount++
	}
	if filters.Date != nil {
		query += fmt.Sprintf(" AND visit_date = $%d", argCount)
		args = append(args, *filters.Date)
		argCount++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filters.Status)
		argCount++
	}

	query += " ORDER BY visit_date DESC, visit_time DESC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// FindByWorkerSlot is the conflict-guard lookup: the booking key is
// (worker, date, time) regardless of center.
func (r *appointmentRepository) FindByWorkerSlot(ctx context.Context, workerID uuid.UUID, date, timeOfDay string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE worker_id = $1 AND visit_date = $2 AND visit_time = $3
		AND status != 'cancelled'
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, workerID, date, timeOfDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment by slot: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) OccupiedTimes(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]string, error) {
	query := `
		SELECT visit_time::text
		FROM appointments
		WHERE worker_id = $1
		AND center_id = $2
		AND visit_date = $3
		AND status NOT IN ('cancelled')
		ORDER BY visit_time
	`
	var times []string
	err := r.db.SelectContext(ctx, &times, query, workerID, centerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupied times: %w", err)
	}
	return times, nil
}

func (r *appointmentRepository) DailyAgenda(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]*model.AgendaRow, error) {
	query := `
		SELECT
			a.id AS appointment_id,
			a.visit_date::text AS visit_date,
			a.visit_time::text AS visit_time,
			a.status,
			a.consultation_type,
			a.record_number,
			a.folder_number,
			p.rut AS patient_rut,
			p.first_name AS patient_name,
			p.last_name AS patient_last_name,
			p.phone AS patient_phone,
			p.age AS patient_age,
			p.gender AS patient_gender,
			e.hour_status,
			e.attention_status,
			e.modality,
			e.diagnosis
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		LEFT JOIN encounters e ON e.appointment_id = a.id
		WHERE a.worker_id = $1
		AND a.center_id = $2
		AND a.visit_date = $3
		ORDER BY a.visit_time ASC
	`
	var rows []*model.AgendaRow
	err := r.db.SelectContext(ctx, &rows, query, workerID, centerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily agenda: %w", err)
	}
	return rows, nil
}

// detailRow is the flat scan target for the full appointment join.
type detailRow struct {
	model.Appointment

	PatientRUT       string  `db:"patient_rut"`
	PatientFirstName string  `db:"patient_first_name"`
	PatientLastName  string  `db:"patient_last_name"`
	PatientPhone     *string `db:"patient_phone"`
	PatientAge       *int    `db:"patient_age"`
	PatientGender    *string `db:"patient_gender"`
	PatientAddress   *string `db:"patient_address"`
	PatientBirthDate *string `db:"patient_birth_date"`
	PatientEmail     *string `db:"patient_email"`

	WorkerFirstName string  `db:"worker_first_name"`
	WorkerLastName  string  `db:"worker_last_name"`
	WorkerRole      string  `db:"worker_role"`
	WorkerSpecialty *string `db:"worker_specialty"`

	CenterName string `db:"center_name"`
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id uuid.UUID, workerID *uuid.UUID) (*model.AppointmentDetail, error) {
	query := `
		SELECT
			a.id, a.patient_id, a.worker_id, a.center_id,
			a.visit_date::text AS visit_date, a.visit_time::text AS visit_time,
			a.consultation_type, a.record_number, a.folder_number,
			a.status, a.encounter_id, a.created_at, a.updated_at,
			p.rut AS patient_rut,
			p.first_name AS patient_first_name,
			p.last_name AS patient_last_name,
			p.phone AS patient_phone,
			p.age AS patient_age,
			p.gender AS patient_gender,
			p.address AS patient_address,
			p.birth_date::text AS patient_birth_date,
			p.email AS patient_email,
			w.first_name AS worker_first_name,
			w.last_name AS worker_last_name,
			w.role AS worker_role,
			w.specialty AS worker_specialty,
			c.name AS center_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN workers w ON a.worker_id = w.id
		JOIN centers c ON a.center_id = c.id
		WHERE a.id = $1
	`
	args := []interface{}{id}
	if workerID != nil {
		query += " AND a.worker_id = $2"
		args = append(args, *workerID)
	}

	var row detailRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment detail: %w", err)
	}

	detail := &model.AppointmentDetail{
		Appointment: row.Appointment,
		Patient: model.Patient{
			ID:        row.PatientID,
			RUT:       row.PatientRUT,
			FirstName: row.PatientFirstName,
			LastName:  row.PatientLastName,
			Phone:     row.PatientPhone,
			Age:       row.PatientAge,
			Gender:    row.PatientGender,
			Address:   row.PatientAddress,
			BirthDate: row.PatientBirthDate,
			Email:     row.PatientEmail,
		},
		Worker: model.Worker{
			ID:        row.WorkerID,
			FirstName: row.WorkerFirstName,
			LastName:  row.WorkerLastName,
			Role:      row.WorkerRole,
			Specialty: row.WorkerSpecialty,
		},
		Center: model.Center{
			ID:   row.CenterID,
			Name: row.CenterName,
		},
	}

	encounter, err := r.getEncounter(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Encounter = encounter

	return detail, nil
}

func (r *appointmentRepository) getEncounter(ctx context.Context, appointmentID uuid.UUID) (*model.Encounter, error) {
	query := `
		SELECT ` + encounterColumns + `
		FROM encounters
		WHERE appointment_id = $1
	`
	var encounter model.Encounter
	err := r.db.GetContext(ctx, &encounter, query, appointmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}
	return &encounter, nil
}
