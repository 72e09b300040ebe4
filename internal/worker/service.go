// Package worker provides the HTTP worker service for ticketlens.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/internal/cluster"
	"github.com/flacuna/ticketlens/internal/config"
	"github.com/flacuna/ticketlens/internal/narrative"
	"github.com/flacuna/ticketlens/internal/report"
	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/internal/vector"
)

// Service is the HTTP worker exposing report generation and health
// endpoints.
type Service struct {
	config    *config.Config
	store     vector.Store
	repo      repository.Repository
	reports   *report.Service
	router    *chi.Mux
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	metrics   *metrics
	version   string
	startTime time.Time
	ready     atomic.Bool
}

// NewService creates the worker service and wires its routes.
func NewService(version string, cfg *config.Config, store vector.Store, repo repository.Repository, summarizer narrative.Summarizer) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	opts := cluster.Options{
		DistanceThreshold: cfg.DistanceThreshold,
		MaxNeighbors:      cfg.MaxNeighbors,
		MinClusterSize:    cfg.MinClusterSize,
		MaxClusters:       cfg.MaxClusters,
	}

	svc := &Service{
		version:   version,
		config:    cfg,
		store:     store,
		repo:      repo,
		reports:   report.NewService(store, repo, summarizer, opts),
		router:    chi.NewRouter(),
		ctx:       ctx,
		cancel:    cancel,
		metrics:   newMetrics(),
		startTime: time.Now(),
	}
	svc.setupRoutes()
	return svc
}

func (s *Service) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)

	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/health/vector", s.handleVectorHealth)
	s.router.Get("/api/reports/recurrence", s.handleRecurrenceReport)
}

// Start runs the HTTP server until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.WorkerPort)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", s.version).Msg("Worker listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.ready.Store(true)

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the HTTP server gracefully.
func (s *Service) Shutdown() error {
	s.ready.Store(false)
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Router exposes the HTTP handler, mostly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}
