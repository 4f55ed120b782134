package settings

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
)

func GetTimerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		t, err := store.Get(r.Context(), uid)
		if err != nil {
			log.Printf("[ERROR] get timer settings user_id=%d: %v", uid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func UpdateTimerHandler(store *Store, events *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// start from what is stored so partial bodies keep the other fields
		current, err := store.Get(r.Context(), uid)
		if err != nil {
			log.Printf("[ERROR] get timer settings user_id=%d: %v", uid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		saved, err := store.Save(r.Context(), uid, current)
		if errors.Is(err, ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Printf("[ERROR] save timer settings user_id=%d: %v", uid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		events.LogRequest(r, uid, "timer_settings_updated", map[string]any{
			"pomodoro_duration":    saved.PomodoroDuration,
			"short_break_duration": saved.ShortBreakDuration,
			"long_break_duration":  saved.LongBreakDuration,
			"early_bird_mode":      saved.EarlyBirdMode,
			"night_owl_mode":       saved.NightOwlMode,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(saved)
	}
}
