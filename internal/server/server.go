package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minbar/data-preprocessor/internal/usecase"
)

// Deps wires the control-surface handlers.
type Deps struct {
	Monitor *usecase.HealthMonitor
	Runner  *usecase.Runner
	Logger  *slog.Logger
}

// Server exposes the health check and the manual trigger over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the server with its routes registered.
func New(addr string, deps Deps) *Server {
	router := chi.NewRouter()
	router.Get("/health", healthHandler(deps.Monitor))
	router.Post("/trigger-processing", triggerHandler(deps.Runner))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.Info("control surface listening", "addr", s.httpServer.Addr)
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns 200 with per-check detail when everything passes,
// 503 otherwise.
func healthHandler(monitor *usecase.HealthMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := monitor.Check(r.Context())

		status := http.StatusOK
		overall := "ok"
		if !report.Healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		writeJSON(w, status, map[string]interface{}{
			"status": overall,
			"checks": report,
		})
	}
}

// triggerHandler starts a run in the background and answers immediately.
// Failure detail of the run itself is only discoverable via health and logs.
func triggerHandler(runner *usecase.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := runner.TriggerAsync(r.Context())
		if errors.Is(err, usecase.ErrAlreadyRunning) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"message": "processing run already in progress",
			})
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "processing run started",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
