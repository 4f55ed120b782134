package insights

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
	"focus-planner-backend/internal/settings"
)

const maxDailyDays = 90

type Handlers struct {
	Service  *Service
	Settings *settings.Store
	Events   *analytics.Recorder
}

// Recommendations: GET /sessions/recommendations
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, h.Service.GetSessionRecommendations(r.Context(), uid))
}

// ApplyRecommendations: POST /sessions/recommendations/apply
func (h *Handlers) ApplyRecommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Defaults are never written back; they also stand in for a failed read.
	rec := h.Service.GetSessionRecommendations(r.Context(), uid)
	if rec.SessionCount < MinSessionsForRecommendation {
		http.Error(w, "not enough session history", http.StatusConflict)
		return
	}

	saved, err := h.Settings.ApplyDurations(r.Context(), uid, rec.WorkDuration, rec.ShortBreakDuration, rec.LongBreakDuration)
	if errors.Is(err, settings.ErrInvalid) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Printf("[ERROR] apply recommendations user_id=%d: %v", uid, err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.Events.LogRequest(r, uid, "recommendation_applied", map[string]any{
		"work_duration":        rec.WorkDuration,
		"short_break_duration": rec.ShortBreakDuration,
		"long_break_duration":  rec.LongBreakDuration,
		"confidence":           rec.Confidence,
		"session_count":        rec.SessionCount,
	})

	writeJSON(w, map[string]any{
		"recommendation": rec,
		"settings":       saved,
	})
}

// FocusPattern: GET /focus/pattern
func (h *Handlers) FocusPattern(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, h.Service.GetUserFocusPattern(r.Context(), uid))
}

// Daily: GET /focus/daily?days=N
func (h *Handlers) Daily(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxDailyDays {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = n
	}
	writeJSON(w, h.Service.GetDailyAnalytics(r.Context(), uid, days))
}

// Insights: GET /insights
func (h *Handlers) Insights(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	report := h.Service.GetInsights(r.Context(), uid)

	h.Events.LogRequest(r, uid, "insights_viewed", map[string]any{
		"insight_count": len(report.Insights),
		"focus_score":   report.Patterns.Pattern.FocusScore,
		"trend":         report.Patterns.FocusScoreTrend,
	})

	writeJSON(w, report)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
