// Package api exposes the analysis service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Analyzer       Analyzer
	HealthChecks   map[string]HealthCheck
	RateLimiter    *RateLimiter
	MetricsHandler http.Handler
	Recorder       HTTPRecorder
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewRouter builds the HTTP routes:
//
//	POST /api/analyze  analysis envelope
//	GET  /healthz      dependency health
//	GET  /metrics      Prometheus exposition
func NewRouter(deps RouterDeps) http.Handler {
	logger := util.OrNop(deps.Logger)
	h := NewHandler(deps.Analyzer, deps.HealthChecks, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger, deps.Recorder))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}
		if deps.RequestTimeout > 0 {
			r.Use(middleware.Timeout(deps.RequestTimeout))
		}
		r.Post("/analyze", h.Analyze)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
