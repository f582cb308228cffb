package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/agendasalud/scheduling-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

type encounterRepository struct {
	BaseRepository
}

type sessionRepository struct {
	BaseRepository
}

type diagnosisRepository struct {
	BaseRepository
}

type workerRepository struct {
	BaseRepository
}

type patientRepository struct {
	BaseRepository
}

type centerRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewEncounterRepository(db *sqlx.DB) repository.EncounterRepository {
	return &encounterRepository{NewBaseRepository(db)}
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{NewBaseRepository(db)}
}

func NewDiagnosisRepository(db *sqlx.DB) repository.DiagnosisRepository {
	return &diagnosisRepository{NewBaseRepository(db)}
}

func NewWorkerRepository(db *sqlx.DB) repository.WorkerRepository {
	return &workerRepository{NewBaseRepository(db)}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func NewCenterRepository(db *sqlx.DB) repository.CenterRepository {
	return &centerRepository{NewBaseRepository(db)}
}
