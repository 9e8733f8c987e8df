package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

const maxRequestBodyBytes = 1 << 20

// Analyzer runs one creator analysis. *analysis.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// HealthCheck reports the availability of one dependency.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	analyzer Analyzer
	checks   map[string]HealthCheck
	logger   *zap.Logger
}

func NewHandler(analyzer Analyzer, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		checks:   checks,
		logger:   util.OrNop(logger),
	}
}

// Analyze handles POST /api/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		h.logger.Debug("Malformed analyze request", zap.Error(err))
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, result)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz. Any failing dependency turns the response into a 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.APIConfig.HealthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		start := time.Now()
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check failed",
				zap.String("dependency", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
