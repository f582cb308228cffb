package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Lookup
	// methods return (nil, nil) when the row is absent; the caller
	// decides whether absence is an error.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.AppointmentPatch) error
		SetStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindByWorkerSlot(ctx context.Context, workerID uuid.UUID, date, timeOfDay string) (*model.Appointment, error)
		OccupiedTimes(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]string, error)
		DailyAgenda(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]*model.AgendaRow, error)
		GetDetail(ctx context.Context, id uuid.UUID, workerID *uuid.UUID) (*model.AppointmentDetail, error)
	}

	// EncounterRepository persists clinical encounters. SaveWithStatus
	// applies the encounter upsert and the derived appointment status
	// in one transaction.
	EncounterRepository interface {
		GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Encounter, error)
		SaveWithStatus(ctx context.Context, encounter *model.Encounter, status model.AppointmentStatus) error
	}

	// SessionRepository tracks work sessions keyed on
	// (worker, center, date).
	SessionRepository interface {
		Upsert(ctx context.Context, workerID, centerID uuid.UUID, date string) (*model.WorkSession, error)
		GetActive(ctx context.Context, workerID, centerID uuid.UUID, date string) (*model.WorkSession, error)
		Close(ctx context.Context, id uuid.UUID) error
		ListForWorker(ctx context.Context, workerID uuid.UUID, dateRange model.SessionRange) ([]*model.WorkSessionRow, error)
		CloseStaleBefore(ctx context.Context, date string) (int64, error)
	}

	DiagnosisRepository interface {
		GetByCode(ctx context.Context, code string) (*model.Diagnosis, error)
		SearchByName(ctx context.Context, term string, limit int) ([]*model.Diagnosis, error)
	}

	WorkerRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Worker, error)
		GetByRUT(ctx context.Context, rut string) (*model.Worker, error)
		ListHealthWorkers(ctx context.Context, centerID *uuid.UUID) ([]*model.Worker, error)
		ListBySpecialty(ctx context.Context, specialty string) ([]*model.Worker, error)
		ListSpecialties(ctx context.Context) ([]string, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}

	CenterRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Center, error)
		List(ctx context.Context) ([]*model.Center, error)
	}
)
