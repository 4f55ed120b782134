package tasks

import (
	"time"

	"focus-planner-backend/internal/scheduler"
)

type Task struct {
	ID                 int                `json:"id"`
	UserID             int                `json:"-"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Priority           scheduler.Priority `json:"priority"`
	Status             scheduler.Status   `json:"status"`
	EstimatedPomodoros int                `json:"estimated_pomodoros"`
	Category           string             `json:"category"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ForScheduling is the read model the scheduler consumes.
func (t Task) ForScheduling() scheduler.Task {
	return scheduler.Task{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Priority:           t.Priority,
		Status:             t.Status,
		EstimatedPomodoros: t.EstimatedPomodoros,
		Category:           t.Category,
		DueDate:            t.DueDate,
	}
}

func validPriority(p scheduler.Priority) bool {
	switch p {
	case scheduler.PriorityLow, scheduler.PriorityMedium, scheduler.PriorityHigh:
		return true
	}
	return false
}

func validStatus(s scheduler.Status) bool {
	switch s {
	case scheduler.StatusPending, scheduler.StatusInProgress, scheduler.StatusCompleted, scheduler.StatusCancelled:
		return true
	}
	return false
}

func priorityWeight(p scheduler.Priority) int {
	switch p {
	case scheduler.PriorityHigh:
		return 3
	case scheduler.PriorityMedium:
		return 2
	case scheduler.PriorityLow:
		return 1
	}
	return 0
}
