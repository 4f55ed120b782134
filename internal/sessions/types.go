package sessions

import "time"

type Type string

const (
	TypeWork       Type = "work"
	TypeShortBreak Type = "short_break"
	TypeLongBreak  Type = "long_break"
)

func (t Type) Valid() bool {
	return t == TypeWork || t == TypeShortBreak || t == TypeLongBreak
}

// Session is one focus or break run. Duration is the planned length in minutes.
type Session struct {
	ID                string     `json:"id"`
	UserID            int        `json:"user_id"`
	TaskID            *int       `json:"task_id,omitempty"`
	Type              Type       `json:"type"`
	Duration          int        `json:"duration"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	Interrupted       bool       `json:"interrupted"`
	InterruptionCount int        `json:"interruption_count"`
}
