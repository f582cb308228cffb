package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/config"
	"github.com/agendasalud/scheduling-api/internal/handler"
	agendaHandler "github.com/agendasalud/scheduling-api/internal/handler/agenda"
	authHandler "github.com/agendasalud/scheduling-api/internal/handler/auth"
	encounterHandler "github.com/agendasalud/scheduling-api/internal/handler/encounter"
	schedulerHandler "github.com/agendasalud/scheduling-api/internal/handler/scheduler"
	sessionHandler "github.com/agendasalud/scheduling-api/internal/handler/session"
	"github.com/agendasalud/scheduling-api/internal/middleware"
	"github.com/agendasalud/scheduling-api/internal/repository/postgres"
	"github.com/agendasalud/scheduling-api/internal/router"
	authService "github.com/agendasalud/scheduling-api/internal/service/auth"
	encounterService "github.com/agendasalud/scheduling-api/internal/service/encounter"
	schedulingService "github.com/agendasalud/scheduling-api/internal/service/scheduling"
	sessionService "github.com/agendasalud/scheduling-api/internal/service/session"
	"github.com/agendasalud/scheduling-api/pkg/auth"
	"github.com/agendasalud/scheduling-api/pkg/logger"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
	"github.com/agendasalud/scheduling-api/pkg/validator"
)

func main() {
	logger.Setup(nil)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Register custom binding rules
	if err := validator.RegisterBindings(); err != nil {
		log.Fatal().Err(err).Msg("failed to register binding rules")
	}

	// Initialize repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	encounterRepo := postgres.NewEncounterRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	diagnosisRepo := postgres.NewDiagnosisRepository(db)
	workerRepo := postgres.NewWorkerRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	centerRepo := postgres.NewCenterRepository(db)

	// Initialize metrics
	m := metrics.NewMetrics("agendasalud", "api")

	// Initialize token infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	revoker, err := auth.NewRedisRevoker(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize services
	schedulingSvc := schedulingService.NewService(appointmentRepo, workerRepo, patientRepo, centerRepo, m)
	encounterSvc := encounterService.NewService(encounterRepo, appointmentRepo, diagnosisRepo, m)
	sessionSvc := sessionService.NewService(sessionRepo, m)
	authSvc := authService.NewService(workerRepo, centerRepo, sessionSvc, jwtSvc, revoker)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, revoker)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	schedulerH := schedulerHandler.NewHandler(schedulingSvc, workerRepo)
	agendaH := agendaHandler.NewHandler(schedulingSvc)
	encounterH := encounterHandler.NewHandler(encounterSvc)
	sessionH := sessionHandler.NewHandler(sessionSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authH,
		schedulerH,
		agendaH,
		encounterH,
		sessionH,
		h,
		router.RouterConfig{
			RateLimitEnabled:  cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			RateBurst:         cfg.RateLimit.Burst,
			CORSConfig:        middleware.DefaultCORSConfig(),
			MetricsPrefix:     "agendasalud_http",
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
