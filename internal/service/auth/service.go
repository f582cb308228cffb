package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/repository"
	"github.com/agendasalud/scheduling-api/internal/service/session"
	"github.com/agendasalud/scheduling-api/pkg/auth"
	apperrors "github.com/agendasalud/scheduling-api/pkg/errors"
	"github.com/agendasalud/scheduling-api/pkg/security"
)

// Service authenticates workers and manages their access tokens. A
// successful login also opens the worker's session for the day at the
// chosen center.
type Service struct {
	workerRepo repository.WorkerRepository
	centerRepo repository.CenterRepository
	sessions   *session.Service
	jwt        *auth.JWTService
	revoker    auth.TokenRevoker
}

func NewService(
	workerRepo repository.WorkerRepository,
	centerRepo repository.CenterRepository,
	sessions *session.Service,
	jwt *auth.JWTService,
	revoker auth.TokenRevoker,
) *Service {
	return &Service{
		workerRepo: workerRepo,
		centerRepo: centerRepo,
		sessions:   sessions,
		jwt:        jwt,
		revoker:    revoker,
	}
}

// Login verifies credentials and returns a signed token along with the
// worker, center and opened session. Credential failures are reported
// without distinguishing unknown RUT from wrong password.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	center, err := s.centerRepo.Get(ctx, req.CenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up center: %w", err)
	}
	if center == nil {
		return nil, apperrors.Validation("health center is not valid", nil)
	}

	worker, err := s.workerRepo.GetByRUT(ctx, req.RUT)
	if err != nil {
		return nil, fmt.Errorf("failed to look up worker: %w", err)
	}
	if worker == nil || !worker.Active {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if !security.VerifyPassword(worker.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	workSession, err := s.sessions.EnsureOpenSession(ctx, worker.ID, center.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(worker.ID, worker.Role, center.ID, workSession.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.LoginResponse{
		Token:   token,
		Worker:  worker,
		Center:  center,
		Session: workSession,
	}, nil
}

// Centers lists the active health centers shown on the login screen.
func (s *Service) Centers(ctx context.Context) ([]*model.Center, error) {
	centers, err := s.centerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	return centers, nil
}

// Logout closes the work session named by the token and revokes the
// token until its natural expiry. Both steps are best effort so a
// logout always succeeds from the client's point of view.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.SessionID != uuid.Nil {
		if err := s.sessions.CloseSession(ctx, claims.SessionID); err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
			log.Warn().Err(err).
				Str("session_id", claims.SessionID.String()).
				Msg("failed to close session on logout")
		}
	}

	until := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, until); err != nil {
		log.Warn().Err(err).Msg("failed to revoke token on logout")
	}
	return nil
}
