// Package core is the HTTP chassis of the pricing API: router, middleware,
// response envelopes, request validation and health reporting. Domain
// handlers attach through V1RouteRegistrars.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/config"
)

// MetricsCollector records per-request telemetry.
type MetricsCollector interface {
	RecordRequest(method, route, status string, duration time.Duration)
}

// Server holds the dependencies shared by every route.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// Metrics may be nil. MetricsHandler, when set, is served at /metrics.
	Metrics        MetricsCollector
	MetricsHandler http.Handler

	HealthProbes      []HealthProbe
	V1RouteRegistrars []func(chi.Router)

	// OnShutdown hooks run in reverse registration order.
	OnShutdown []func(context.Context) error

	router *chi.Mux
}

// NewServer validates the required dependencies and creates an empty router.
// Call MountRoutes after the optional fields are set.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases the resources registered in OnShutdown. Every hook runs
// even when an earlier one fails.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	var errs []error
	for i := len(s.OnShutdown) - 1; i >= 0; i-- {
		if err := s.OnShutdown[i](ctx); err != nil {
			s.Logger.Error("shutdown hook failed", "error", err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	s.Logger.Info("server shutdown complete")
	return nil
}
