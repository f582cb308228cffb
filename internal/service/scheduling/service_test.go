package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendasalud/scheduling-api/internal/model"
	apperrors "github.com/agendasalud/scheduling-api/pkg/errors"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "scheduling")

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	occupiedErr  error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	return r.appointments[id], nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, id uuid.UUID, patch *model.AppointmentPatch) error {
	a := r.appointments[id]
	if patch.WorkerID != nil {
		a.WorkerID = *patch.WorkerID
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	return nil
}

func (r *fakeAppointmentRepo) SetStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	r.appointments[id].Status = status
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByWorkerSlot(_ context.Context, workerID uuid.UUID, date, timeOfDay string) (*model.Appointment, error) {
	for _, a := range r.appointments {
		if a.WorkerID == workerID && a.Date == date && a.Time == timeOfDay && a.Status != model.AppointmentStatusCancelled {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) OccupiedTimes(_ context.Context, workerID, centerID uuid.UUID, date string) ([]string, error) {
	if r.occupiedErr != nil {
		return nil, r.occupiedErr
	}
	var times []string
	for _, a := range r.appointments {
		if a.WorkerID == workerID && a.CenterID == centerID && a.Date == date && a.Status != model.AppointmentStatusCancelled {
			times = append(times, a.Time)
		}
	}
	return times, nil
}

func (r *fakeAppointmentRepo) DailyAgenda(_ context.Context, _, _ uuid.UUID, _ string) ([]*model.AgendaRow, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) GetDetail(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*model.AppointmentDetail, error) {
	return nil, nil
}

type fakeWorkerRepo struct {
	workers map[uuid.UUID]*model.Worker
}

func (r *fakeWorkerRepo) Get(_ context.Context, id uuid.UUID) (*model.Worker, error) {
	return r.workers[id], nil
}
func (r *fakeWorkerRepo) GetByRUT(_ context.Context, _ string) (*model.Worker, error) {
	return nil, nil
}
func (r *fakeWorkerRepo) ListHealthWorkers(_ context.Context, _ *uuid.UUID) ([]*model.Worker, error) {
	return nil, nil
}
func (r *fakeWorkerRepo) ListBySpecialty(_ context.Context, _ string) ([]*model.Worker, error) {
	return nil, nil
}
func (r *fakeWorkerRepo) ListSpecialties(_ context.Context) ([]string, error) {
	return nil, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.patients[id], nil
}

type fakeCenterRepo struct {
	centers map[uuid.UUID]*model.Center
}

func (r *fakeCenterRepo) Get(_ context.Context, id uuid.UUID) (*model.Center, error) {
	return r.centers[id], nil
}
func (r *fakeCenterRepo) List(_ context.Context) ([]*model.Center, error) {
	return nil, nil
}

type testEnv struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	workerID uuid.UUID
	patient  uuid.UUID
	centerA  uuid.UUID
	centerB  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	workerID := uuid.New()
	patientID := uuid.New()
	centerA := uuid.New()
	centerB := uuid.New()

	repo := newFakeAppointmentRepo()
	svc := NewService(
		repo,
		&fakeWorkerRepo{workers: map[uuid.UUID]*model.Worker{
			workerID: {ID: workerID, Role: model.RoleHealthWorker, Active: true},
		}},
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
			patientID: {ID: patientID},
		}},
		&fakeCenterRepo{centers: map[uuid.UUID]*model.Center{
			centerA: {ID: centerA, Active: true},
			centerB: {ID: centerB, Active: true},
		}},
		testMetrics,
	)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}

	return &testEnv{
		svc:      svc,
		repo:     repo,
		workerID: workerID,
		patient:  patientID,
		centerA:  centerA,
		centerB:  centerB,
	}
}

func (e *testEnv) request(date, timeOfDay string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID: e.patient,
		WorkerID:  e.workerID,
		CenterID:  e.centerA,
		Date:      date,
		Time:      timeOfDay,
	}
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusBooked, a.Status)
	assert.Equal(t, "10:00:00", a.Time, "time is normalized")
	assert.Equal(t, "consulta", a.Type, "consultation type defaults")
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestCreateAppointmentRejectsPastDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-01", "10:00"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateAppointmentSameDayAllowed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-02", "08:00"))
	assert.NoError(t, err)
}

func TestCreateAppointmentConflictAcrossCenters(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)

	// Same worker, date and time at a different center still collides.
	req := env.request("2026-03-10", "10:00:00")
	req.CenterID = env.centerB
	_, err = env.svc.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateAppointmentCancelledSlotIsReusable(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelAppointment(context.Background(), a.ID))

	_, err = env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	assert.NoError(t, err)
}

func TestCreateAppointmentRejectsNonHealthWorker(t *testing.T) {
	env := newTestEnv(t)

	req := env.request("2026-03-10", "10:00")
	req.WorkerID = uuid.New()
	_, err := env.svc.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	env := newTestEnv(t)

	req := env.request("2026-03-10", "10:00")
	req.PatientID = uuid.New()
	_, err := env.svc.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateAppointmentKeepingOwnSlot(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)

	// Re-submitting the appointment's own slot must not be a conflict.
	date := "2026-03-10"
	timeOfDay := "10:00"
	updated, err := env.svc.UpdateAppointment(context.Background(), a.ID, &model.AppointmentPatch{
		Date: &date,
		Time: &timeOfDay,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", updated.Time)
}

func TestUpdateAppointmentConflictsWithOtherBooking(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)
	b, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "11:00"))
	require.NoError(t, err)

	timeOfDay := "10:00"
	_, err = env.svc.UpdateAppointment(context.Background(), b.ID, &model.AppointmentPatch{Time: &timeOfDay})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	env := newTestEnv(t)

	timeOfDay := "10:00"
	_, err := env.svc.UpdateAppointment(context.Background(), uuid.New(), &model.AppointmentPatch{Time: &timeOfDay})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCancelCompletedAppointment(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)
	require.NoError(t, env.svc.UpdateStatus(context.Background(), a.ID, model.AppointmentStatusCompleted))

	err = env.svc.CancelAppointment(context.Background(), a.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestCancelAppointmentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "10:00"))
	require.NoError(t, err)

	require.NoError(t, env.svc.CancelAppointment(context.Background(), a.ID))
	assert.NoError(t, env.svc.CancelAppointment(context.Background(), a.ID))
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.UpdateStatus(context.Background(), uuid.New(), model.AppointmentStatus("archived"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAvailableSlots(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.request("2026-03-10", "09:00"))
	require.NoError(t, err)

	slots, err := env.svc.AvailableSlots(context.Background(), env.workerID, env.centerA, "2026-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 19)
	assert.NotContains(t, slots, "09:00")
}

func TestAvailableSlotsInvalidDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AvailableSlots(context.Background(), env.workerID, env.centerA, "10-03-2026")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAvailableSlotsDegradesWhenLookupFails(t *testing.T) {
	env := newTestEnv(t)
	env.repo.occupiedErr = assert.AnError

	slots, err := env.svc.AvailableSlots(context.Background(), env.workerID, env.centerA, "2026-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 20, "a failing lookup yields a full grid")
}
