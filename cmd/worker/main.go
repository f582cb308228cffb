package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/config"
	"github.com/agendasalud/scheduling-api/internal/repository/postgres"
	sessionService "github.com/agendasalud/scheduling-api/internal/service/session"
	"github.com/agendasalud/scheduling-api/pkg/logger"
	"github.com/agendasalud/scheduling-api/pkg/metrics"
)

// The janitor force-closes work sessions left active past their day,
// so workers who never log out do not accumulate open sessions.
type janitor struct {
	sessions *sessionService.Service
	interval time.Duration
}

func (j *janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", j.interval).Msg("session janitor started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session janitor shutting down")
			return
		case <-ticker.C:
			closed, err := j.sessions.CloseStale(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to close stale sessions")
				continue
			}
			if closed > 0 {
				log.Info().Int64("closed", closed).Msg("closed stale sessions")
			}
		}
	}
}

func setupHealthCheck() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	sessionRepo := postgres.NewSessionRepository(db)
	m := metrics.NewMetrics("agendasalud", "janitor")
	sessionSvc := sessionService.NewService(sessionRepo, m)

	setupHealthCheck()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	j := &janitor{
		sessions: sessionSvc,
		interval: cfg.Janitor.Interval,
	}
	j.run(ctx)
}
