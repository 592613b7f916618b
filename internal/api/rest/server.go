package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/nDmitry/rssposter/internal/feed"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Activity provides recent publications and the last run status
type Activity interface {
	Recent(limit int) []entity.Publication
	Status() (lastRun time.Time, posted int)
}

// Generator renders publications as a feed
type Generator interface {
	Generate(channel feed.Channel, pubs []entity.Publication, params *entity.FeedParams) ([]byte, error)
}

// Server represents the status HTTP server
type Server struct {
	mux       *http.ServeMux
	server    *http.Server
	logger    *slog.Logger
	activity  Activity
	generator Generator
	channel   feed.Channel
	port      string
}

// NewServer creates a new status server
func NewServer(a Activity, g Generator, channel feed.Channel, port string) *Server {
	mux := http.NewServeMux()
	logger := app.Logger()

	server := &Server{
		mux:       mux,
		logger:    logger,
		activity:  a,
		generator: g,
		channel:   channel,
		port:      port,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           nil,               // Will be set in Run
			ReadHeaderTimeout: 10 * time.Second,  // Mitigate Slowloris
			ReadTimeout:       30 * time.Second,  // Time to read entire request (including body)
			WriteTimeout:      30 * time.Second,  // Time to write response
			IdleTimeout:       120 * time.Second, // Keep-alive timeout
		},
	}

	server.registerHandlers()

	return server
}

// registerHandlers sets up all routes
func (s *Server) registerHandlers() {
	NewActivityHandler(s.mux, s.activity, s.generator, s.channel)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the routes wrapped with middleware
func (s *Server) Handler() http.Handler {
	return Logger(s.mux)
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	s.server.Handler = s.Handler()

	// Set BaseContext to pass the parent context
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	s.server.RegisterOnShutdown(func() {
		s.logger.Info("Status server is shutting down...")
	})

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting status server", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Status server exited gracefully")

	return nil
}
