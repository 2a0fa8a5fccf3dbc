package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solarin-app/solarin/internal/domain"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// ─── Status & Health ────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if s.health != nil && !s.health.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	body := map[string]interface{}{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if s.health != nil {
		body["checks"] = s.health.Statuses()
	}
	writeJSON(w, status, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

// ─── UV ─────────────────────────────────────────────────────────────────────

func (s *Server) handleUV(w http.ResponseWriter, r *http.Request) {
	loc, _, uv, fetched := s.tracker.Environment()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uv":         uv,
		"location":   loc,
		"fetched_at": fetched,
	})
}

func (s *Server) handleUVForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := s.tracker.Forecast(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"forecast": forecast})
}

// ─── Session Control ────────────────────────────────────────────────────────

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Controller.Snapshot())
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracker.Start(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionPause(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Pause(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Controller.Snapshot())
}

func (s *Server) handleSessionResume(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Resume(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Controller.Snapshot())
}

func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracker.Stop()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// writeSessionError maps state machine errors to HTTP status codes.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionInFlight),
		errors.Is(err, domain.ErrInvalidSessionState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// ─── Progress ───────────────────────────────────────────────────────────────

func (s *Server) handleProgressToday(w http.ResponseWriter, r *http.Request) {
	goal := float64(s.tracker.Profile().DailyGoalIU)
	writeJSON(w, http.StatusOK, s.tracker.Progress.Today(goal))
}

func (s *Server) handleProgressWeekly(w http.ResponseWriter, r *http.Request) {
	goal := float64(s.tracker.Profile().DailyGoalIU)
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 31 {
			days = n
		}
	}
	writeJSON(w, http.StatusOK, s.tracker.Progress.WeeklyStats(days, goal))
}

func (s *Server) handleProgressMonthly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Progress.Monthly())
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Streak{
		Current: s.tracker.Progress.CurrentStreak(),
		Longest: s.tracker.Progress.BestStreak(),
	})
}

// ─── Engagement ─────────────────────────────────────────────────────────────

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	goal := float64(s.tracker.Profile().DailyGoalIU)
	profile, err := s.tracker.Engine.Profile(goal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.tracker.Engine.ListUnlocked()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byID := make(map[string]domain.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		byID[u.ID] = u
	}

	type entry struct {
		domain.AchievementDef
		Unlocked   bool       `json:"unlocked"`
		UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	}

	defs := s.tracker.Engine.Definitions()
	out := make([]entry, len(defs))
	for i, def := range defs {
		e := entry{AchievementDef: def}
		if u, ok := byID[def.ID]; ok {
			e.Unlocked = true
			at := u.UnlockedAt
			e.UnlockedAt = &at
		}
		out[i] = e
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
		"unlocked":     len(unlocked),
		"total":        len(defs),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	goal := float64(s.tracker.Profile().DailyGoalIU)
	profile, err := s.tracker.Engine.Profile(goal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"today":   s.tracker.Progress.Today(goal),
		"weekly":  s.tracker.Progress.WeeklyStats(7, goal),
		"monthly": s.tracker.Progress.Monthly(),
	})
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if s.notifs == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": []domain.Notification{}})
		return
	}
	pending, err := s.notifs.ListPendingNotifications(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pending == nil {
		pending = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": pending})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	if s.notifs == nil {
		writeError(w, http.StatusNotFound, "notification log not available")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.notifs.MarkNotificationShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── History ────────────────────────────────────────────────────────────────

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		s.handleHistoryExport(w, r)
		return
	}

	sessions := s.tracker.History.All()
	if sessions == nil {
		sessions = []domain.ExposureSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
		"capacity": s.tracker.History.Capacity(),
	})
}

func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="solarin-history.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{
		"id", "started_at", "ended_at", "active_seconds", "uv_index",
		"location", "lat", "lon", "sky", "skin_type", "clothing", "estimated_iu",
	})
	for _, sess := range s.tracker.History.All() {
		cw.Write([]string{
			sess.ID,
			sess.StartedAt.Format(time.RFC3339),
			sess.EndedAt.Format(time.RFC3339),
			strconv.Itoa(sess.ActiveSeconds),
			fmt.Sprintf("%.1f", sess.UVIndex),
			sess.Location,
			fmt.Sprintf("%.4f", sess.Lat),
			fmt.Sprintf("%.4f", sess.Lon),
			sess.Weather.Description,
			sess.SkinType.String(),
			sess.Clothing.String(),
			fmt.Sprintf("%.0f", sess.EstimatedIU),
		})
	}
}
