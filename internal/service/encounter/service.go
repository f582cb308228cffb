package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/repository"
	apperrors "github.com/agendasalud/scheduling-api/pkg/errors"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
)

// Defaults applied when the save payload omits categorical fields.
const (
	defaultHourStatus      = model.HourStatusAssigned
	defaultAttentionStatus = "en espera"
	defaultModality        = "presencial"
	defaultActivity        = "consulta"
	defaultDischargeType   = "alta"
)

// hourStatusMapping derives the owning appointment's status from the
// encounter hour-status. Case variants are enumerated as observed on
// the wire; anything else falls back to booked.
var hourStatusMapping = map[string]model.AppointmentStatus{
	"Asignada":     model.AppointmentStatusBooked,
	"ejecutada":    model.AppointmentStatusCompleted,
	"Ejecutada":    model.AppointmentStatusCompleted,
	"no ejecutada": model.AppointmentStatusCancelled,
	"No Ejecutada": model.AppointmentStatusCancelled,
}

// StatusFromHourStatus maps an encounter hour-status to the
// appointment status it implies.
func StatusFromHourStatus(hourStatus string) model.AppointmentStatus {
	if status, ok := hourStatusMapping[hourStatus]; ok {
		return status
	}
	return model.AppointmentStatusBooked
}

// Service saves clinical encounters and keeps the owning appointment's
// status consistent with them.
type Service struct {
	repo            repository.EncounterRepository
	appointmentRepo repository.AppointmentRepository
	diagnosisRepo   repository.DiagnosisRepository
	diagnoses       *Resolver
	metrics         *metrics.Metrics

	now func() time.Time
}

func NewService(
	repo repository.EncounterRepository,
	appointmentRepo repository.AppointmentRepository,
	diagnosisRepo repository.DiagnosisRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		diagnosisRepo:   diagnosisRepo,
		diagnoses:       NewResolver(diagnosisRepo),
		metrics:         m,
		now:             time.Now,
	}
}

// SaveResult reports what the save did to the owning appointment.
type SaveResult struct {
	Encounter         *model.Encounter        `json:"encounter"`
	AppointmentStatus model.AppointmentStatus `json:"appointment_status"`
	DiagnosisID       *uuid.UUID              `json:"diagnosis_id,omitempty"`
}

// Save upserts the encounter for an appointment. The encounter row and
// the derived appointment status are written in one transaction.
func (s *Service) Save(ctx context.Context, workerID uuid.UUID, req *model.SaveEncounterRequest) (*SaveResult, error) {
	appointment, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}

	encounter := s.fromRequest(workerID, req)

	// Best effort: an unresolvable diagnosis never blocks the save.
	encounter.DiagnosisID = s.diagnoses.Resolve(ctx, req.Diagnosis)

	derived := StatusFromHourStatus(encounter.HourStatus)

	err = s.repo.SaveWithStatus(ctx, encounter, derived)
	s.metrics.RecordDBOperation("save_encounter", err)
	if err != nil {
		return nil, fmt.Errorf("failed to save encounter: %w", err)
	}

	s.metrics.EncountersSaved.Inc()
	return &SaveResult{
		Encounter:         encounter,
		AppointmentStatus: derived,
		DiagnosisID:       encounter.DiagnosisID,
	}, nil
}

// GetByAppointment returns the encounter for an appointment, or nil
// when none has been recorded yet.
func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Encounter, error) {
	encounter, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}
	return encounter, nil
}

// SuggestDiagnoses exposes partial-match diagnosis lookup for the UI.
func (s *Service) SuggestDiagnoses(ctx context.Context, term string, limit int) ([]*model.Diagnosis, error) {
	if len(term) < 2 {
		return []*model.Diagnosis{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	diagnoses, err := s.diagnosisRepo.SearchByName(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search diagnoses: %w", err)
	}
	return diagnoses, nil
}

func (s *Service) fromRequest(workerID uuid.UUID, req *model.SaveEncounterRequest) *model.Encounter {
	encounter := &model.Encounter{
		Appointment:     req.AppointmentID,
		PatientID:       req.PatientID,
		WorkerID:        workerID,
		CenterID:        req.CenterID,
		Date:            req.Date,
		Time:            req.Time,
		HourStatus:      req.HourStatus,
		AttentionStatus: req.AttentionStatus,
		Modality:        req.Modality,
		Activity:        req.Activity,
		DischargeType:   req.DischargeType,
		Diagnosis:       req.Diagnosis,
		Observations:    req.Observations,

		GES:              req.GES,
		DiagnosticIntake: req.DiagnosticIntake,
		TreatmentControl: req.TreatmentControl,
		Discharged:       req.Discharged,
		CardioProgram:    req.CardioProgram,
		Morbidity:        req.Morbidity,
		MentalHealth:     req.MentalHealth,
		WellChild:        req.WellChild,
		Breastfeeding:    req.Breastfeeding,
		LactationAdvice:  req.LactationAdvice,
		Pregnant:         req.Pregnant,
		HomeVisit:        req.HomeVisit,
		SevereDependency: req.SevereDependency,
		Remote:           req.Remote,
	}

	now := s.now()
	if encounter.Date == "" {
		encounter.Date = now.Format("2006-01-02")
	}
	if encounter.Time == "" {
		encounter.Time = now.Format("15:04:05")
	}
	if encounter.HourStatus == "" {
		encounter.HourStatus = defaultHourStatus
	}
	if encounter.AttentionStatus == "" {
		encounter.AttentionStatus = defaultAttentionStatus
	}
	if encounter.Modality == "" {
		encounter.Modality = defaultModality
	}
	if encounter.Activity == "" {
		encounter.Activity = defaultActivity
	}
	if encounter.DischargeType == "" {
		encounter.DischargeType = defaultDischargeType
	}

	return encounter
}
