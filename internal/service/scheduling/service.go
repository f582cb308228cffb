package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/repository"
	apperrors "github.com/agendasalud/scheduling-api/pkg/errors"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

const defaultConsultationType = "consulta"

// Service implements conflict-free booking, the appointment lifecycle
// and availability computation.
type Service struct {
	repo        repository.AppointmentRepository
	workerRepo  repository.WorkerRepository
	patientRepo repository.PatientRepository
	centerRepo  repository.CenterRepository
	metrics     *metrics.Metrics

	now func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	workerRepo repository.WorkerRepository,
	patientRepo repository.PatientRepository,
	centerRepo repository.CenterRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:        repo,
		workerRepo:  workerRepo,
		patientRepo: patientRepo,
		centerRepo:  centerRepo,
		metrics:     m,
		now:         time.Now,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// CreateAppointment books a slot for a patient. The (worker, date,
// time) key must be free across all centers, and the date must not be
// in the past. The uniqueness constraint in the store backs this
// pre-check against concurrent requests.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
	}

	today, _ := parseDate(s.now().Format(dateLayout))
	if date.Before(today) {
		return nil, apperrors.Validation("appointments cannot be booked on past dates", nil)
	}

	timeOfDay, err := NormalizeClock(req.Time)
	if err != nil {
		return nil, apperrors.Validation("invalid time format, use HH:MM[:SS]", err)
	}

	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient", nil)
	}

	worker, err := s.workerRepo.Get(ctx, req.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up worker: %w", err)
	}
	if worker == nil || worker.Role != model.RoleHealthWorker {
		return nil, apperrors.Validation("worker is not a valid health worker", nil)
	}

	center, err := s.centerRepo.Get(ctx, req.CenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up center: %w", err)
	}
	if center == nil {
		return nil, apperrors.Validation("health center is not valid", nil)
	}

	existing, err := s.repo.FindByWorkerSlot(ctx, req.WorkerID, req.Date, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	if existing != nil {
		s.metrics.ConflictsDetected.Inc()
		return nil, apperrors.Conflict("worker already has an appointment at that date and time", nil)
	}

	consultationType := req.Type
	if consultationType == "" {
		consultationType = defaultConsultationType
	}

	appointment := &model.Appointment{
		PatientID:    req.PatientID,
		WorkerID:     req.WorkerID,
		CenterID:     req.CenterID,
		Date:         req.Date,
		Time:         timeOfDay,
		Type:         consultationType,
		RecordNumber: req.RecordNumber,
		FolderNumber: req.FolderNumber,
		Status:       model.AppointmentStatusBooked,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return appointment, nil
}

// UpdateAppointment applies a partial update. The conflict check runs
// only when the patch touches the (worker, date, time) key, and a hit
// on the appointment being updated itself is not a conflict.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, patch *model.AppointmentPatch) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}

	if patch.Date != nil {
		if _, err := parseDate(*patch.Date); err != nil {
			return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
		}
	}
	if patch.Time != nil {
		normalized, err := NormalizeClock(*patch.Time)
		if err != nil {
			return nil, apperrors.Validation("invalid time format, use HH:MM[:SS]", err)
		}
		patch.Time = &normalized
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Validation("unknown appointment status", nil)
	}

	if patch.TouchesSlot() {
		workerID := appointment.WorkerID
		date := appointment.Date
		timeOfDay := appointment.Time
		if patch.WorkerID != nil {
			workerID = *patch.WorkerID
		}
		if patch.Date != nil {
			date = *patch.Date
		}
		if patch.Time != nil {
			timeOfDay = *patch.Time
		}

		existing, err := s.repo.FindByWorkerSlot(ctx, workerID, date, timeOfDay)
		if err != nil {
			return nil, fmt.Errorf("failed to check booking conflict: %w", err)
		}
		if existing != nil && existing.ID != id {
			s.metrics.ConflictsDetected.Inc()
			return nil, apperrors.Conflict("worker already has an appointment at that date and time", nil)
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return s.GetAppointment(ctx, id)
}

// CancelAppointment marks the appointment cancelled. Completed
// appointments cannot be cancelled; cancelling twice is a no-op.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment == nil {
		return apperrors.NotFound("appointment", nil)
	}

	if appointment.Status == model.AppointmentStatusCompleted {
		return apperrors.InvalidTransition("cannot cancel a completed appointment")
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return nil
	}

	if err := s.repo.SetStatus(ctx, id, model.AppointmentStatusCancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.metrics.AppointmentsCancelled.Inc()
	return nil
}

// UpdateStatus sets the status directly, used by the worker-facing
// agenda view.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	if !status.Valid() {
		return apperrors.Validation("unknown appointment status", nil)
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters.Date != nil {
		if _, err := parseDate(*filters.Date); err != nil {
			return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
		}
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// AvailableSlots computes the free "HH:MM" slots for a worker at a
// center on a date. Availability is best effort: a failing
// occupied-times lookup degrades to a full grid rather than an error.
func (s *Service) AvailableSlots(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]string, error) {
	if _, err := parseDate(date); err != nil {
		return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
	}

	start := time.Now()
	defer func() {
		s.metrics.AvailabilityLatency.Observe(time.Since(start).Seconds())
	}()

	occupied, err := s.repo.OccupiedTimes(ctx, workerID, centerID, date)
	if err != nil {
		log.Warn().Err(err).
			Str("worker_id", workerID.String()).
			Str("date", date).
			Msg("occupied-times lookup failed, treating day as free")
		occupied = nil
	}

	return FreeSlots(occupied), nil
}

// DailyAgenda returns the worker's appointments for one day at one
// center, joined with patient and encounter data, earliest first.
func (s *Service) DailyAgenda(ctx context.Context, workerID, centerID uuid.UUID, date string) ([]*model.AgendaRow, error) {
	if _, err := parseDate(date); err != nil {
		return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
	}

	rows, err := s.repo.DailyAgenda(ctx, workerID, centerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily agenda: %w", err)
	}
	return rows, nil
}

// AppointmentDetail returns the full joined view. A non-nil workerID
// restricts the lookup to that worker's own appointments.
func (s *Service) AppointmentDetail(ctx context.Context, id uuid.UUID, workerID *uuid.UUID) (*model.AppointmentDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment detail: %w", err)
	}
	if detail == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return detail, nil
}
