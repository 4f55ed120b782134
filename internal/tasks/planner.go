package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
	"focus-planner-backend/internal/scheduler"
	"focus-planner-backend/internal/settings"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// Planner builds day plans from the stored open tasks and the user's timer
// settings.
type Planner struct {
	Tasks    *Store
	Settings *settings.Store
	Events   *analytics.Recorder
	Location *time.Location
	Now      func() time.Time
}

func (p *Planner) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.UTC
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// ParseDate resolves a YYYY-MM-DD date in the planner's location; empty
// means today.
func (p *Planner) ParseDate(raw string) (time.Time, error) {
	loc := p.location()
	if raw == "" {
		now := p.now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Plan schedules the user's open tasks into date. A non-empty taskIDs
// restricts the plan to those tasks.
func (p *Planner) Plan(ctx context.Context, userID int, date time.Time, events []scheduler.Event, taskIDs []int) (scheduler.DayPlan, error) {
	open, err := p.Tasks.List(ctx, userID, OpenStatuses...)
	if err != nil {
		return scheduler.DayPlan{}, fmt.Errorf("plan day: %w", err)
	}

	var want map[int]bool
	if len(taskIDs) > 0 {
		want = make(map[int]bool, len(taskIDs))
		for _, id := range taskIDs {
			want[id] = true
		}
	}

	input := make([]scheduler.Task, 0, len(open))
	for _, t := range open {
		if want != nil && !want[t.ID] {
			continue
		}
		input = append(input, t.ForScheduling())
	}

	timer, err := p.Settings.Get(ctx, userID)
	if err != nil {
		return scheduler.DayPlan{}, fmt.Errorf("plan day: %w", err)
	}
	profile := scheduler.CreateCognitiveProfile(timer.Resolve())

	return scheduler.PlanDay(input, date, profile, events), nil
}

// ScheduleHandler: POST /schedule
func ScheduleHandler(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req ScheduleRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}
		for _, ev := range req.Events {
			if !ev.End.After(ev.Start) {
				http.Error(w, "event end must be after start", http.StatusBadRequest)
				return
			}
		}

		date, err := p.ParseDate(req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		plan, err := p.Plan(r.Context(), uid, date, req.Events, req.TaskIDs)
		if err != nil {
			log.Printf("[ERROR] schedule user_id=%d date=%s: %v", uid, date.Format("2006-01-02"), err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		p.Events.LogRequest(r, uid, "schedule_generated", map[string]any{
			"date":        date.Format("2006-01-02"),
			"chronotype":  plan.Profile.Chronotype,
			"scheduled":   len(plan.Assignments),
			"unscheduled": len(plan.Unscheduled),
			"busy_events": len(req.Events),
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}
