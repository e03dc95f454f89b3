// Package server runs the Hirelytics HTTP API until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hirelytics/internal/bootstrap"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and the dependencies behind it.
type Server struct {
	http   *http.Server
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
}

// NewServer loads configuration and wires every dependency. Resources opened
// before a failing step are released.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	store, database, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dataset store: %w", err)
	}

	publisher, err := bootstrap.SetupPublisher(cfg, lgr)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, fmt.Errorf("failed to setup event publisher: %w", err)
	}

	deps := bootstrap.BuildDependencies(cfg, store, publisher, bootstrap.StartHub(), lgr)
	deps.Database = database

	bootstrap.SeedData(ctx, cfg, deps)

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		deps.Close()
		return nil, err
	}

	return &Server{
		http: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Minute,
			WriteTimeout:      time.Minute,
			IdleTimeout:       2 * time.Minute,
		},
		deps:   deps,
		logger: lgr,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		s.deps.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests, then closes publishers, the websocket
// hub and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	defer s.deps.Close()

	// Hijacked websocket connections are not tracked by Shutdown; closing the
	// hub in deps.Close ends them.
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		return fmt.Errorf("server shutdown completed with errors: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
