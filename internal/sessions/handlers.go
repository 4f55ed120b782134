package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
)

const maxListDays = 365

type Handlers struct {
	Store  *Store
	Events *analytics.Recorder
	Now    func() time.Time

	// OnChange runs after a user's session history changed.
	OnChange func(ctx context.Context, userID int)
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handlers) changed(ctx context.Context, userID int) {
	if h.OnChange != nil {
		h.OnChange(ctx, userID)
	}
}

// Record: POST /sessions
func (h *Handlers) Record(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		TaskID            *int       `json:"task_id"`
		Type              Type       `json:"type"`
		Duration          int        `json:"duration"`
		StartedAt         *time.Time `json:"started_at"`
		CompletedAt       *time.Time `json:"completed_at"`
		IsCompleted       bool       `json:"is_completed"`
		Interrupted       bool       `json:"interrupted"`
		InterruptionCount int        `json:"interruption_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	sess := Session{
		UserID:            uid,
		TaskID:            body.TaskID,
		Type:              body.Type,
		Duration:          body.Duration,
		CompletedAt:       body.CompletedAt,
		IsCompleted:       body.IsCompleted,
		Interrupted:       body.Interrupted,
		InterruptionCount: body.InterruptionCount,
	}
	if body.StartedAt != nil {
		sess.StartedAt = *body.StartedAt
	} else {
		sess.StartedAt = h.now()
	}

	saved, err := h.Store.Record(r.Context(), sess)
	if errors.Is(err, ErrInvalid) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[ERROR] record session user_id=%d: %v", uid, err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.changed(r.Context(), uid)

	h.Events.LogRequest(r, uid, "session_recorded", map[string]any{
		"session_id":         saved.ID,
		"type":               saved.Type,
		"duration":           saved.Duration,
		"is_completed":       saved.IsCompleted,
		"interruption_count": saved.InterruptionCount,
		"has_task":           saved.TaskID != nil,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(saved)
}

// Complete: POST /sessions/complete
func (h *Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ID            string `json:"id"`
		Completed     *bool  `json:"completed"`
		Interruptions int    `json:"interruptions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	completed := true
	if body.Completed != nil {
		completed = *body.Completed
	}

	saved, err := h.Store.Complete(r.Context(), uid, body.ID, h.now(), completed, body.Interruptions)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("[ERROR] complete session user_id=%d id=%s: %v", uid, body.ID, err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.changed(r.Context(), uid)

	h.Events.LogRequest(r, uid, "session_completed", map[string]any{
		"session_id":         saved.ID,
		"type":               saved.Type,
		"is_completed":       saved.IsCompleted,
		"interruption_count": saved.InterruptionCount,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(saved)
}

// List: GET /sessions?days=N
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListDays {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = n
	}
	kind := Type(r.URL.Query().Get("type"))
	if kind != "" && !kind.Valid() {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	since := h.now().AddDate(0, 0, -days)
	list, err := h.Store.ListSince(r.Context(), uid, since, kind)
	if err != nil {
		log.Printf("[ERROR] list sessions user_id=%d: %v", uid, err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
