package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dshills/coral/internal/output"
	"github.com/dshills/coral/internal/progress"
	"github.com/dshills/coral/internal/redact"
	"github.com/dshills/coral/internal/review"
	"github.com/dshills/coral/internal/target"
)

const maxBodyBytes = 1 << 20

// Analyzer runs one analysis. *review.Engine satisfies it.
type Analyzer interface {
	Run(ctx context.Context, req review.Request) *review.Report
}

// AnalyzeRequest is the body accepted by the analysis routes.
type AnalyzeRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type Handlers struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewHandlers creates handlers backed by a. A nil logger discards output.
func NewHandlers(a Analyzer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{analyzer: a, logger: logger}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handlers) Share(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(output.ShareSummary(report)))
}

// run decodes the request and analyzes it. It writes the error response
// itself and reports false when the request was rejected.
func (h *Handlers) run(w http.ResponseWriter, r *http.Request) (*review.Report, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	kind, err := target.ParseType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	if err := target.Validate(req.URL); err != nil {
		h.logger.Warn("url failed form validation", "url", redact.URL(req.URL), "error", err)
	}

	tracker := progress.NewTracker(nil)
	report := h.analyzer.Run(r.Context(), review.Request{URL: req.URL, Type: kind, Observer: tracker})
	report.Agents = tracker.Snapshot()

	h.logger.Info("analysis complete",
		"url", redact.URL(req.URL),
		"type", report.AnalysisType,
		"score", report.Score,
		"findings", len(report.Findings),
		"run_id", report.RunID,
	)
	return report, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
