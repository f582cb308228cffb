package encounter

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

var testMetrics = metrics.NewMetrics("test", "encounter")

type fakeEncounterRepo struct {
	saved       *model.Encounter
	savedStatus model.AppointmentStatus
	existing    *model.Encounter
}

func (r *fakeEncounterRepo) GetByAppointment(_ context.Context, _ uuid.UUID) (*model.Encounter, error) {
	return r.existing, nil
}

func (r *fakeEncounterRepo) SaveWithStatus(_ context.Context, e *model.Encounter, status model.AppointmentStatus) error {
	r.saved = e
	r.savedStatus = status
	return nil
}

type fakeAppointmentGetter struct {
	appointment *model.Appointment
}

func (r *fakeAppointmentGetter) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return r.appointment, nil
}
func (r *fakeAppointmentGetter) Create(_ context.Context, _ *model.Appointment) error { return nil }
func (r *fakeAppointmentGetter) Update(_ context.Context, _ uuid.UUID, _ *model.AppointmentPatch) error {
	return nil
}
func (r *fakeAppointmentGetter) SetStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus) error {
	return nil
}
func (r *fakeAppointmentGetter) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (r *fakeAppointmentGetter) FindByWorkerSlot(_ context.Context, _ uuid.UUID, _, _ string) (*model.Appointment, error) {
	return nil, nil
}
func (r *fakeAppointmentGetter) OccupiedTimes(_ context.Context, _, _ uuid.UUID, _ string) ([]string, error) {
	return nil, nil
}
func (r *fakeAppointmentGetter) DailyAgenda(_ context.Context, _, _ uuid.UUID, _ string) ([]*model.AgendaRow, error) {
	return nil, nil
}
func (r *fakeAppointmentGetter) GetDetail(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*model.AppointmentDetail, error) {
	return nil, nil
}

type fakeDiagnosisRepo struct {
	byCode map[string]*model.Diagnosis
	byName map[string]*model.Diagnosis
	err    error
}

func (r *fakeDiagnosisRepo) GetByCode(_ context.Context, code string) (*model.Diagnosis, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byCode[code], nil
}

func (r *fakeDiagnosisRepo) SearchByName(_ context.Context, term string, _ int) ([]*model.Diagnosis, error) {
	if r.err != nil {
		return nil, r.err
	}
	if d, ok := r.byName[term]; ok {
		return []*model.Diagnosis{d}, nil
	}
	return nil, nil
}

func TestStatusFromHourStatus(t *testing.T) {
	tests := []struct {
		hourStatus string
		want       model.AppointmentStatus
	}{
		{"Asignada", model.AppointmentStatusBooked},
		{"ejecutada", model.AppointmentStatusCompleted},
		{"Ejecutada", model.AppointmentStatusCompleted},
		{"no ejecutada", model.AppointmentStatusCancelled},
		{"No Ejecutada", model.AppointmentStatusCancelled},
		{"something else", model.AppointmentStatusBooked},
		{"", model.AppointmentStatusBooked},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromHourStatus(tt.hourStatus), "hour status %q", tt.hourStatus)
	}
}

func newTestService(repo *fakeEncounterRepo, appointments *fakeAppointmentGetter, diagnoses *fakeDiagnosisRepo) *Service {
	svc := NewService(repo, appointments, diagnoses, testMetrics)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestSaveAppliesDefaults(t *testing.T) {
	repo := &fakeEncounterRepo{}
	appointmentID := uuid.New()
	svc := newTestService(repo,
		&fakeAppointmentGetter{appointment: &model.Appointment{ID: appointmentID}},
		&fakeDiagnosisRepo{},
	)

	workerID := uuid.New()
	result, err := svc.Save(context.Background(), workerID, &model.SaveEncounterRequest{
		AppointmentID: appointmentID,
		PatientID:     uuid.New(),
		CenterID:      uuid.New(),
	})
	require.NoError(t, err)

	saved := repo.saved
	require.NotNil(t, saved)
	assert.Equal(t, workerID, saved.WorkerID)
	assert.Equal(t, "Asignada", saved.HourStatus)
	assert.Equal(t, "en espera", saved.AttentionStatus)
	assert.Equal(t, "presencial", saved.Modality)
	assert.Equal(t, "consulta", saved.Activity)
	assert.Equal(t, "alta", saved.DischargeType)
	assert.Equal(t, "2026-03-02", saved.Date)
	assert.Equal(t, "14:30:00", saved.Time)
	assert.Equal(t, model.AppointmentStatusBooked, result.AppointmentStatus)
}

func TestSaveDerivesAppointmentStatus(t *testing.T) {
	repo := &fakeEncounterRepo{}
	appointmentID := uuid.New()
	svc := newTestService(repo,
		&fakeAppointmentGetter{appointment: &model.Appointment{ID: appointmentID}},
		&fakeDiagnosisRepo{},
	)

	result, err := svc.Save(context.Background(), uuid.New(), &model.SaveEncounterRequest{
		AppointmentID: appointmentID,
		PatientID:     uuid.New(),
		CenterID:      uuid.New(),
		HourStatus:    "ejecutada",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusCompleted, result.AppointmentStatus)
	assert.Equal(t, model.AppointmentStatusCompleted, repo.savedStatus)
}

func TestSaveUnknownAppointment(t *testing.T) {
	svc := newTestService(&fakeEncounterRepo{}, &fakeAppointmentGetter{}, &fakeDiagnosisRepo{})

	_, err := svc.Save(context.Background(), uuid.New(), &model.SaveEncounterRequest{
		AppointmentID: uuid.New(),
		PatientID:     uuid.New(),
		CenterID:      uuid.New(),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolverExactCode(t *testing.T) {
	code := "J00"
	d := &model.Diagnosis{ID: uuid.New(), Name: "Resfrío común", Code: &code}
	r := NewResolver(&fakeDiagnosisRepo{byCode: map[string]*model.Diagnosis{"J00": d}})

	got := r.Resolve(context.Background(), "J00 - Resfrío común")
	require.NotNil(t, got)
	assert.Equal(t, d.ID, *got)
}

func TestResolverFallsBackToNamePart(t *testing.T) {
	d := &model.Diagnosis{ID: uuid.New(), Name: "Resfrío común"}
	r := NewResolver(&fakeDiagnosisRepo{byName: map[string]*model.Diagnosis{"Resfrío común": d}})

	got := r.Resolve(context.Background(), "ZZZ - Resfrío común")
	require.NotNil(t, got)
	assert.Equal(t, d.ID, *got)
}

func TestResolverPlainText(t *testing.T) {
	d := &model.Diagnosis{ID: uuid.New(), Name: "Hipertensión"}
	r := NewResolver(&fakeDiagnosisRepo{byName: map[string]*model.Diagnosis{"Hipertensión": d}})

	got := r.Resolve(context.Background(), "Hipertensión")
	require.NotNil(t, got)
	assert.Equal(t, d.ID, *got)
}

func TestResolverNeverFails(t *testing.T) {
	r := NewResolver(&fakeDiagnosisRepo{err: assert.AnError})
	assert.Nil(t, r.Resolve(context.Background(), "J00 - anything"))

	r = NewResolver(&fakeDiagnosisRepo{})
	assert.Nil(t, r.Resolve(context.Background(), "unknown text"))
	assert.Nil(t, r.Resolve(context.Background(), ""))
	assert.Nil(t, r.Resolve(context.Background(), "   "))
}

func TestSuggestDiagnosesShortTerm(t *testing.T) {
	svc := newTestService(&fakeEncounterRepo{}, &fakeAppointmentGetter{}, &fakeDiagnosisRepo{})

	suggestions, err := svc.SuggestDiagnoses(context.Background(), "a", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
