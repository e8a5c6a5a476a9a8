package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/estimation"
	"github.com/jonathan/project-estimator/internal/matching"
	"github.com/jonathan/project-estimator/internal/types"
)

// maxRequestBody bounds the /estimate payload size.
const maxRequestBody = 1 << 20

// ReloadResponse is the body returned by POST /calibration/reload.
type ReloadResponse struct {
	Status string                 `json:"status"`
	Stats  *calibration.LoadStats `json:"stats"`
}

// SummaryEntry is one calibration record in the summary listing. Only
// records with enough samples to influence estimates are listed.
type SummaryEntry struct {
	Label        string  `json:"label"`
	SampleCount  int     `json:"sample_count"`
	AverageHours float64 `json:"average_hours"`
}

// SummaryResponse is the body returned by GET /calibration/summary.
type SummaryResponse struct {
	Records []SummaryEntry         `json:"records"`
	Stats   *calibration.LoadStats `json:"stats"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status   string   `json:"status"`
	Records  int      `json:"records"`
	Warnings []string `json:"warnings,omitempty"`
	LoadedAt string   `json:"loaded_at,omitempty"`
}

// handleEstimate runs the estimation pipeline for one request.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.metrics.EstimateRequests.WithLabelValues("error").Inc()
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
		return
	}

	if err := s.schema.ValidateBytes(body); err != nil {
		s.metrics.EstimateRequests.WithLabelValues("invalid").Inc()
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req types.EstimateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.metrics.EstimateRequests.WithLabelValues("invalid").Inc()
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.metrics.EstimateRequests.WithLabelValues("invalid").Inc()
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := s.engine.Estimate(&req)
	if err != nil {
		var validationErr *estimation.ValidationError
		if errors.As(err, &validationErr) {
			s.metrics.EstimateRequests.WithLabelValues("invalid").Inc()
			s.errorResponse(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		s.metrics.EstimateRequests.WithLabelValues("error").Inc()
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.EstimateRequests.WithLabelValues("ok").Inc()
	s.metrics.EstimateDuration.Observe(time.Since(start).Seconds())
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleReload rebuilds the calibration store from the configured sources.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Reload(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "reload failed: "+err.Error())
		return
	}

	s.metrics.ObserveLoad(stats)
	s.jsonResponse(w, http.StatusOK, &ReloadResponse{Status: "ok", Stats: stats})
}

// handleSummary lists the calibration records currently backing estimates.
func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	store := s.engine.Store()

	records := make([]SummaryEntry, 0, store.Len())
	for _, rec := range store.Records() {
		if rec.SampleCount < matching.MinUsableSamples {
			continue
		}
		records = append(records, SummaryEntry{
			Label:        rec.Label,
			SampleCount:  rec.SampleCount,
			AverageHours: rec.AverageHours,
		})
	}

	s.jsonResponse(w, http.StatusOK, &SummaryResponse{Records: records, Stats: s.engine.Stats()})
}

// handleHealth reports liveness plus calibration degradation. The service
// stays healthy with an empty store; estimates then run on base hours with
// low confidence.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.engine.Stats()

	resp := &HealthResponse{Status: "ok", Records: stats.Records, Warnings: stats.Warnings}
	if !stats.LoadedAt.IsZero() {
		resp.LoadedAt = stats.LoadedAt.Format(time.RFC3339)
	}
	if stats.Degraded() {
		resp.Status = "degraded"
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON body with the given status code.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
