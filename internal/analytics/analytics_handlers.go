package analytics

import (
	"encoding/json"
	"net/http"
)

// app_opened
func AppOpenedHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			ColdStart bool   `json:"cold_start"`
			From      string `json:"from"` // push/deeplink/icon/unknown
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		rec.LogRequest(r, uid, "app_opened", map[string]any{
			"cold_start": body.ColdStart,
			"from":       body.From,
		})

		writeOK(w)
	}
}

var timerActions = map[string]bool{
	"started": true,
	"paused":  true,
	"resumed": true,
	"skipped": true,
	"reset":   true,
}

// timer_<action>: client-side timer controls that never produce a session row.
func TimerEventHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Action   string `json:"action"`
			Mode     string `json:"mode"` // work/short_break/long_break
			Duration int    `json:"duration"`
			TaskID   *int   `json:"task_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if !timerActions[body.Action] {
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}

		rec.LogRequest(r, uid, "timer_"+body.Action, map[string]any{
			"mode":     body.Mode,
			"duration": body.Duration,
			"task_id":  body.TaskID,
		})

		writeOK(w)
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
