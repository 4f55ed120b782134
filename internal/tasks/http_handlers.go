package tasks

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
	"focus-planner-backend/internal/scheduler"
)

// -------------------------------
// HANDLERS
// -------------------------------

// GetTasksHandler: GET /tasks?status=pending,in_progress
func GetTasksHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var statuses []scheduler.Status
		for _, raw := range splitList(r.URL.Query().Get("status")) {
			st := scheduler.Status(raw)
			if !validStatus(st) {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			statuses = append(statuses, st)
		}

		result, err := store.List(r.Context(), uid, statuses...)
		if err != nil {
			log.Printf("[ERROR] list tasks user_id=%d: %v", uid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// CreateTaskHandler: POST /tasks
func CreateTaskHandler(store *Store, events *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := store.Create(r.Context(), uid, req)
		if errors.Is(err, ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Printf("[ERROR] create task user_id=%d: %v", uid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		ct := scheduler.Classify(t.ForScheduling())
		events.LogRequest(r, uid, "task_created", map[string]any{
			"task_id":             t.ID,
			"priority":            t.Priority,
			"estimated_pomodoros": t.EstimatedPomodoros,
			"has_due_date":        t.DueDate != nil,
			"complexity":          ct.Complexity,
			"cognitive_load_type": ct.CognitiveLoadType,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	}
}

// SetTaskStatusHandler: POST /tasks/status
func SetTaskStatusHandler(store *Store, events *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.ID <= 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		err := store.UpdateStatus(r.Context(), uid, req.ID, req.Status)
		switch {
		case errors.Is(err, ErrInvalid):
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		case errors.Is(err, ErrNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
			return
		case err != nil:
			log.Printf("[ERROR] update task status user_id=%d task_id=%d: %v", uid, req.ID, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		t, err := store.Get(r.Context(), uid, req.ID)
		if err != nil {
			log.Printf("[ERROR] fetch task user_id=%d task_id=%d: %v", uid, req.ID, err)
			http.Error(w, "fetch error", http.StatusInternalServerError)
			return
		}

		switch t.Status {
		case scheduler.StatusCompleted:
			events.LogRequest(r, uid, "task_completed", map[string]any{
				"task_id":  t.ID,
				"priority": t.Priority,
			})
		case scheduler.StatusCancelled:
			events.LogRequest(r, uid, "task_cancelled", map[string]any{
				"task_id": t.ID,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// DeleteTaskHandler: DELETE /tasks?id=N
func DeleteTaskHandler(store *Store, events *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil || id <= 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		err = store.Delete(r.Context(), uid, id)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[ERROR] delete task user_id=%d task_id=%d: %v", uid, id, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		events.LogRequest(r, uid, "task_deleted", map[string]any{"task_id": id})

		w.WriteHeader(http.StatusNoContent)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
