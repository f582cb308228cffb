package session

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

// Service tracks worker shift windows. Sessions are keyed on
// (worker, center, date) and reused across logins on the same day.
type Service struct {
	repo    repository.SessionRepository
	metrics *metrics.Metrics

	now func() time.Time
}

func NewService(repo repository.SessionRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// EnsureOpenSession opens today's session for the worker at the center,
// or reactivates it if one already exists. The first recorded
// start_time is preserved. When the upsert itself fails, an existing
// active row is still accepted so a login is not blocked by a transient
// write failure.
func (s *Service) EnsureOpenSession(ctx context.Context, workerID, centerID uuid.UUID) (*model.WorkSession, error) {
	today := s.now().Format(dateLayout)

	session, err := s.repo.Upsert(ctx, workerID, centerID, today)
	s.metrics.RecordDBOperation("upsert_session", err)
	if err == nil {
		s.metrics.SessionsOpened.Inc()
		return session, nil
	}

	log.Warn().Err(err).
		Str("worker_id", workerID.String()).
		Str("date", today).
		Msg("session upsert failed, re-reading active session")

	session, readErr := s.repo.GetActive(ctx, workerID, centerID, today)
	if readErr == nil && session != nil {
		return session, nil
	}
	return nil, apperrors.TransientStore("could not open work session", err)
}

// CloseSession stamps the end time and deactivates the session. Closing
// an already-closed session keeps its original end time.
func (s *Service) CloseSession(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Close(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("work session", err)
		}
		return fmt.Errorf("failed to close work session: %w", err)
	}

	s.metrics.SessionsClosed.Inc()
	return nil
}

// ListSessions returns the worker's sessions within the date range,
// newest first. Either bound may be empty.
func (s *Service) ListSessions(ctx context.Context, workerID uuid.UUID, dateRange model.SessionRange) ([]*model.WorkSessionRow, error) {
	for _, bound := range []string{dateRange.From, dateRange.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, bound); err != nil {
			return nil, apperrors.Validation("invalid date format, use YYYY-MM-DD", err)
		}
	}

	sessions, err := s.repo.ListForWorker(ctx, workerID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}
	return sessions, nil
}

// CloseStale force-closes sessions still active before today. Used by
// the janitor worker.
func (s *Service) CloseStale(ctx context.Context) (int64, error) {
	today := s.now().Format(dateLayout)

	closed, err := s.repo.CloseStaleBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale work sessions: %w", err)
	}
	if closed > 0 {
		s.metrics.SessionsClosed.Add(float64(closed))
	}
	return closed, nil
}
