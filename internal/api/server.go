// Package api provides the HTTP server for Solarin. It exposes the
// tracker over a local REST API: session control, progress,
// engagement, and history.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solarin-app/solarin/internal/app/tracker"
	"github.com/solarin-app/solarin/internal/domain"
	"github.com/solarin-app/solarin/internal/health"
)

// NotificationStore reads and updates the persisted notification log.
type NotificationStore interface {
	ListPendingNotifications(limit int) ([]domain.Notification, error)
	MarkNotificationShown(id int64) error
}

// Server is the Solarin HTTP API server.
type Server struct {
	tracker        *tracker.Tracker
	health         *health.Checker
	notifs         NotificationStore
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(t *tracker.Tracker, h *health.Checker) *Server {
	return &Server{tracker: t, health: h}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetNotificationStore wires the persisted notification log.
func (s *Server) SetNotificationStore(ns NotificationStore) { s.notifs = ns }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/version", s.handleVersion)

		r.Get("/uv", s.handleUV)
		r.Get("/uv/forecast", s.handleUVForecast)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Post("/start", s.handleSessionStart)
			r.Post("/pause", s.handleSessionPause)
			r.Post("/resume", s.handleSessionResume)
			r.Post("/stop", s.handleSessionStop)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/today", s.handleProgressToday)
			r.Get("/weekly", s.handleProgressWeekly)
			r.Get("/monthly", s.handleProgressMonthly)
			r.Get("/streak", s.handleStreak)
		})

		r.Route("/engagement", func(r chi.Router) {
			r.Get("/level", s.handleLevel)
			r.Get("/streak", s.handleStreak)
			r.Get("/achievements", s.handleAchievements)
			r.Get("/summary", s.handleSummary)
		})

		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)

		r.Get("/history", s.handleHistory)
		r.Get("/history/export", s.handleHistoryExport)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
