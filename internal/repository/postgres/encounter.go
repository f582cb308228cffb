package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendasalud/scheduling-api/internal/model"
)

const encounterColumns = `
	id, appointment_id, patient_id, worker_id, center_id,
	encounter_date::text AS encounter_date,
	encounter_time::text AS encounter_time,
	hour_status, attention_status, modality, activity, discharge_type,
	diagnosis, diagnosis_id, observations,
	ges, diagnostic_intake, treatment_control, discharged,
	cardio_program, morbidity, mental_health, well_child,
	breastfeeding, lactation_advice, pregnant, home_visit,
	severe_dependency, remote, created_at, updated_at
`

func (r *encounterRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Encounter, error) {
	query := `SELECT ` + encounterColumns + ` FROM encounters WHERE appointment_id = $1`

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

// SaveWithStatus upserts the encounter keyed by appointment and writes
// the derived status onto the owning appointment in one transaction.
// Either both rows change or neither does.
func (r *encounterRepository) SaveWithStatus(ctx context.Context, encounter *model.Encounter, status model.AppointmentStatus) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var existingID uuid.UUID
		err := tx.GetContext(ctx, &existingID,
			`SELECT id FROM encounters WHERE appointment_id = $1`, encounter.Appointment)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := r.insert(ctx, tx, encounter); err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to look up encounter: %w", err)
		default:
			encounter.ID = existingID
			if err := r.update(ctx, tx, encounter); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE appointments
			SET status = $1,
				encounter_id = COALESCE($2, encounter_id),
				updated_at = $3
			WHERE id = $4
		`, status, encounter.ID, time.Now(), encounter.Appointment)
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
	})
}

func (r *encounterRepository) insert(ctx context.Context, tx *sqlx.Tx, encounter *model.Encounter) error {
	query := `
		INSERT INTO encounters (
			id, appointment_id, patient_id, worker_id, center_id,
			encounter_date, encounter_time,
			hour_status, attention_status, modality, activity, discharge_type,
			diagnosis, diagnosis_id, observations,
			ges, diagnostic_intake, treatment_control, discharged,
			cardio_program, morbidity, mental_health, well_child,
			breastfeeding, lactation_advice, pregnant, home_visit,
			severe_dependency, remote, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			$27, $28, $29, $30, $31
		)
	`
	encounter.ID = uuid.New()
	encounter.CreatedAt = time.Now()
	encounter.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		encounter.ID,
		encounter.Appointment,
		encounter.PatientID,
		encounter.WorkerID,
		encounter.CenterID,
		encounter.Date,
		encounter.Time,
		encounter.HourStatus,
		encounter.AttentionStatus,
		encounter.Modality,
		encounter.Activity,
		encounter.DischargeType,
		encounter.Diagnosis,
		encounter.DiagnosisID,
		encounter.Observations,
		encounter.GES,
		encounter.DiagnosticIntake,
		encounter.TreatmentControl,
		encounter.Discharged,
		encounter.CardioProgram,
		encounter.Morbidity,
		encounter.MentalHealth,
		encounter.WellChild,
		encounter.Breastfeeding,
		encounter.LactationAdvice,
		encounter.Pregnant,
		encounter.HomeVisit,
		encounter.SevereDependency,
		encounter.Remote,
		encounter.CreatedAt,
		encounter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create encounter: %w", err)
	}
	return nil
}

func (r *encounterRepository) update(ctx context.Context, tx *sqlx.Tx, encounter *model.Encounter) error {
	query := `
		UPDATE encounters SET
			hour_status = $1,
			attention_status = $2,
			modality = $3,
			activity = $4,
			discharge_type = $5,
			diagnosis = $6,
			diagnosis_id = $7,
			observations = $8,
			ges = $9,
			diagnostic_intake = $10,
			treatment_control = $11,
			discharged = $12,
			cardio_program = $13,
			morbidity = $14,
			mental_health = $15,
			well_child = $16,
			breastfeeding = $17,
			lactation_advice = $18,
			pregnant = $19,
			home_visit = $20,
			severe_dependency = $21,
			remote = $22,
			updated_at = $23
		WHERE id = $24
	`
	encounter.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		encounter.HourStatus,
		encounter.AttentionStatus,
		encounter.Modality,
		encounter.Activity,
		encounter.DischargeType,
		encounter.Diagnosis,
		encounter.DiagnosisID,
		encounter.Observations,
		encounter.GES,
		encounter.DiagnosticIntake,
		encounter.TreatmentControl,
		encounter.Discharged,
		encounter.CardioProgram,
		encounter.Morbidity,
		encounter.MentalHealth,
		encounter.WellChild,
		encounter.Breastfeeding,
		encounter.LactationAdvice,
		encounter.Pregnant,
		encounter.HomeVisit,
		encounter.SevereDependency,
		encounter.Remote,
		encounter.UpdatedAt,
		encounter.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update encounter: %w", err)
	}
	return nil
}
