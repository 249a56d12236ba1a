// Package httpapi exposes the assessment HTTP API plus health and metrics
// endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/extract"
	"github.com/couchcryptid/risk-signal-service/internal/httpx"
	"github.com/couchcryptid/risk-signal-service/internal/location"
	"github.com/couchcryptid/risk-signal-service/internal/observability"
	"github.com/couchcryptid/risk-signal-service/internal/pipeline"
	"github.com/couchcryptid/risk-signal-service/internal/storage"
)

// Store persists and lists assessment history. Optional.
type Store interface {
	InsertAssessment(ctx context.Context, a storage.Assessment) error
	ListAssessments(ctx context.Context, location string, limit int) ([]storage.Assessment, error)
}

// Publisher emits completed assessments for downstream consumers. Optional.
type Publisher interface {
	PublishAssessment(ctx context.Context, id string, result pipeline.Result) error
}

// Server wires the assessment pipeline behind HTTP routes.
type Server struct {
	httpServer *http.Server
	assessor   *pipeline.Assessor
	store      Store
	publisher  Publisher
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the API server. store and publisher may be nil; the
// corresponding features are then disabled.
func NewServer(addr string, assessor *pipeline.Assessor, store Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		assessor:  assessor,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/assess", s.handleAssess)
		r.Get("/risk_alerts", s.handleRiskAlerts)
		r.Get("/assessments", s.handleListAssessments)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports readiness. When a store is configured it must be
// reachable; a store that cannot be pinged makes the instance not ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type assessRequest struct {
	Document string `json:"document"`
}

type assessResponse struct {
	AssessmentID string `json:"assessment_id"`
	pipeline.Result
}

// handleAssess runs the full assessment flow for an uploaded document:
// extract text, recognize a location, aggregate signals, score, and then
// best-effort persist and publish.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	text, err := extract.Text(req.Document)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, extract.ErrTooShort) {
			status = http.StatusBadRequest
		}
		httpx.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	// No recognized location is not an error: the assessment proceeds on
	// global financial signals only.
	loc, _ := location.Recognize(text)

	result := s.assessor.Assess(r.Context(), loc)
	id := uuid.NewString()

	if s.store != nil {
		assessment := storage.Assessment{
			ID:             id,
			CreatedAt:      domain.Now(),
			Location:       result.Location,
			RiskScore:      result.RiskScore,
			RiskLevel:      result.RiskLevel,
			HazardCount:    result.AlertCount,
			FinancialCount: result.FinancialAlertCount,
			Alerts:         append(append([]domain.SignalRecord{}, result.HazardAlerts...), result.FinancialAlerts...),
		}
		if err := s.store.InsertAssessment(r.Context(), assessment); err != nil {
			s.logger.Error("store assessment failed", "id", id, "error", err)
			s.metrics.StoreErrors.Inc()
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(r.Context(), id, result); err != nil {
			s.logger.Error("publish assessment failed", "id", id, "error", err)
			s.metrics.PublishErrors.Inc()
		}
	}

	httpx.WriteJSON(w, http.StatusOK, assessResponse{AssessmentID: id, Result: result})
}

// handleRiskAlerts returns the ranked records for a location without
// persisting anything.
func (s *Server) handleRiskAlerts(w http.ResponseWriter, r *http.Request) {
	loc := r.URL.Query().Get("location")

	result := s.assessor.Assess(r.Context(), loc)
	alerts := append(append([]domain.SignalRecord{}, result.HazardAlerts...), result.FinancialAlerts...)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"location":          loc,
		"alerts":            alerts,
		"alert_count":       result.AlertCount,
		"total_alert_count": result.TotalAlertCount,
	})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		httpx.WriteJSON(w, http.StatusNotImplemented, map[string]string{"error": "assessment history is not configured"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	assessments, err := s.store.ListAssessments(r.Context(), r.URL.Query().Get("location"), limit)
	if err != nil {
		s.logger.Error("list assessments failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load assessments"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, assessments)
}
