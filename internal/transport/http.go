// Package transport exposes the HTTP API: findings ingestion, statistics
// queries, and the task registry surface.
package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/domain/pipeline"
	"github.com/audithive/arbiter/internal/domain/stats"
	"github.com/audithive/arbiter/internal/domain/task"
)

// Server wires HTTP handlers.
type Server struct {
	pipeline *pipeline.Service
	registry *task.Registry
	stats    *stats.Service
	logger   *slog.Logger
}

// NewServer creates the router with the standard middleware stack.
func NewServer(p *pipeline.Service, registry *task.Registry, statsSvc *stats.Service, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{pipeline: p, registry: registry, stats: statsSvc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/process_findings", srv.handleProcessFindings)
		r.Get("/statistics", srv.handleStatistics)
		r.Get("/leaderboard/{projectID}", srv.handleLeaderboard)

		r.Post("/tasks", srv.handleSubmitTask)
		r.Get("/tasks", srv.handleListTasks)
		r.Get("/tasks/{projectID}", srv.handleGetTask)
		r.Post("/tasks/{projectID}/cancel", srv.handleCancelTask)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcessFindings(w http.ResponseWriter, r *http.Request) {
	var raw finding.RawBatch
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.pipeline.ProcessBatch(r.Context(), raw)
	if err != nil {
		var verr *finding.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, pipeline.ErrUnknownProject):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("processing batch", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.All(r.Context())
	if err != nil {
		s.logger.Error("listing statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rows == nil {
		rows = []stats.AgentStat{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	rows, err := s.stats.Leaderboard(r.Context(), projectID)
	if err != nil {
		s.logger.Error("listing leaderboard", "project_id", projectID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project_id": projectID, "leaderboard": rows})
}

type submitTaskRequest struct {
	Caller    string `json:"caller"`
	Value     int64  `json:"value"`
	ProjectID string `json:"project_id"`
	RepoURL   string `json:"project_repo"`
	Title     string `json:"title"`
	Bounty    int64  `json:"bounty"`
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := s.registry.SubmitTask(req.Caller, req.Value, req.ProjectID, req.RepoURL, req.Title, req.Bounty)
	if err != nil {
		switch {
		case errors.Is(err, task.ErrDuplicateProject):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, task.ErrInvalidInput), errors.Is(err, task.ErrValueMismatch):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, task.ErrLedgerRejected):
			writeError(w, http.StatusPaymentRequired, err.Error())
		default:
			s.logger.Error("submitting task", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tasks": s.registry.AllTasks()})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	t, err := s.registry.GetTask(projectID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type cancelTaskRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	var req cancelTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if err := s.registry.CancelTask(req.Caller, projectID); err != nil {
		switch {
		case errors.Is(err, task.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, task.ErrNotActive):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, task.ErrUnauthorized):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, task.ErrLedgerRejected):
			writeError(w, http.StatusPaymentRequired, err.Error())
		default:
			s.logger.Error("cancelling task", "project_id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"project_id": projectID, "status": "cancelled"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
