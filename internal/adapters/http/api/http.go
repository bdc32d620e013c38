// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/emotion/internal/domain/emotion"
	"github.com/okian/emotion/pkg/logger"
)

// Detector is the operation the handlers need from the application service.
type Detector interface {
	Detect(ctx context.Context, text string) (emotion.Scores, error)
}

// Dependencies bundles everything the API routes call into.
type Dependencies interface {
	Detector
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	emotionHandler *EmotionHandler
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		emotionHandler: NewEmotionHandler(deps, log),
		logger:         log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	wrap := func(h http.HandlerFunc, endpoint string) http.Handler {
		return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
	}

	mux.Handle("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/emotionDetector", wrap(s.emotionHandler.HandleDetect, "emotionDetector"))
	mux.Handle("/api/emotions", wrap(s.emotionHandler.HandleDetectJSON, "api.emotions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
