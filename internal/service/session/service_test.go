package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendasalud/scheduling-api/internal/model"
	apperrors "github.com/agendasalud/scheduling-api/pkg/errors"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "session")

type fakeSessionRepo struct {
	upsertSession *model.WorkSession
	upsertErr     error
	active        *model.WorkSession
	activeErr     error
	closeErr      error
	closedID      uuid.UUID
	staleClosed   int64
}

func (r *fakeSessionRepo) Upsert(_ context.Context, _, _ uuid.UUID, _ string) (*model.WorkSession, error) {
	return r.upsertSession, r.upsertErr
}

func (r *fakeSessionRepo) GetActive(_ context.Context, _, _ uuid.UUID, _ string) (*model.WorkSession, error) {
	return r.active, r.activeErr
}

func (r *fakeSessionRepo) Close(_ context.Context, id uuid.UUID) error {
	r.closedID = id
	return r.closeErr
}

func (r *fakeSessionRepo) ListForWorker(_ context.Context, _ uuid.UUID, _ model.SessionRange) ([]*model.WorkSessionRow, error) {
	return nil, nil
}

func (r *fakeSessionRepo) CloseStaleBefore(_ context.Context, _ string) (int64, error) {
	return r.staleClosed, nil
}

func newTestService(repo *fakeSessionRepo) *Service {
	svc := NewService(repo, testMetrics)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestEnsureOpenSession(t *testing.T) {
	want := &model.WorkSession{ID: uuid.New(), Active: true}
	svc := newTestService(&fakeSessionRepo{upsertSession: want})

	got, err := svc.EnsureOpenSession(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnsureOpenSessionFallsBackToActiveRow(t *testing.T) {
	// A failed upsert must not block login when an active session
	// already exists for the day.
	existing := &model.WorkSession{ID: uuid.New(), Active: true}
	svc := newTestService(&fakeSessionRepo{
		upsertErr: assert.AnError,
		active:    existing,
	})

	got, err := svc.EnsureOpenSession(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestEnsureOpenSessionReportsStoreFailure(t *testing.T) {
	svc := newTestService(&fakeSessionRepo{upsertErr: assert.AnError})

	_, err := svc.EnsureOpenSession(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindTransientStore))
}

func TestCloseSession(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := newTestService(repo)

	id := uuid.New()
	require.NoError(t, svc.CloseSession(context.Background(), id))
	assert.Equal(t, id, repo.closedID)
}

func TestCloseSessionNotFound(t *testing.T) {
	svc := newTestService(&fakeSessionRepo{closeErr: sql.ErrNoRows})

	err := svc.CloseSession(context.Background(), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListSessionsValidatesRange(t *testing.T) {
	svc := newTestService(&fakeSessionRepo{})

	_, err := svc.ListSessions(context.Background(), uuid.New(), model.SessionRange{From: "02-03-2026"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.ListSessions(context.Background(), uuid.New(), model.SessionRange{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)

	_, err = svc.ListSessions(context.Background(), uuid.New(), model.SessionRange{})
	assert.NoError(t, err, "open-ended range is valid")
}

func TestCloseStale(t *testing.T) {
	svc := newTestService(&fakeSessionRepo{staleClosed: 3})

	closed, err := svc.CloseStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), closed)
}
