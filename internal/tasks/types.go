package tasks

import (
	"time"

	"focus-planner-backend/internal/scheduler"
)

type CreateTaskRequest struct {
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Priority           scheduler.Priority `json:"priority"`
	EstimatedPomodoros int                `json:"estimated_pomodoros"`
	Category           string             `json:"category"`
	DueDate            *time.Time         `json:"due_date"`
}

type UpdateStatusRequest struct {
	ID     int              `json:"id"`
	Status scheduler.Status `json:"status"`
}

// ScheduleRequest asks for a day plan. Date is YYYY-MM-DD in the server's
// timezone; empty means today.
type ScheduleRequest struct {
	Date    string            `json:"date"`
	Events  []scheduler.Event `json:"events"`
	TaskIDs []int             `json:"task_ids"`
}
