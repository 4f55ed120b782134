// Package scheduler matches tasks to the hours of the day a user is best
// suited to do them. Everything here is pure: no I/O, no clock, no shared state.
package scheduler

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Level is used both for task complexity and for energy.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type LoadType string

const (
	LoadFocus          LoadType = "focus"
	LoadCreativity     LoadType = "creativity"
	LoadDecisionMaking LoadType = "decision-making"
	LoadLearning       LoadType = "learning"
	LoadRoutine        LoadType = "routine"
)

type Chronotype string

const (
	EarlyBird    Chronotype = "early-bird"
	NightOwl     Chronotype = "night-owl"
	Intermediate Chronotype = "intermediate"
)

const (
	BlockMinutes       = 30
	MinutesPerPomodoro = 25

	DefaultWorkdayStart = 8
	DefaultWorkdayEnd   = 18
)

// Task is the read model of a user's task. EstimatedPomodoros == 0 means
// no estimate was given.
type Task struct {
	ID                 int        `json:"id" yaml:"id"`
	Title              string     `json:"title" yaml:"title"`
	Description        string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority           Priority   `json:"priority" yaml:"priority"`
	Status             Status     `json:"status" yaml:"status"`
	EstimatedPomodoros int        `json:"estimated_pomodoros" yaml:"estimated_pomodoros"`
	Category           string     `json:"category,omitempty" yaml:"category,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

// CognitiveTask is a Task with the derived scheduling attributes. Fields left
// empty are filled in by ScheduleTasks.
type CognitiveTask struct {
	Task

	Complexity               Level    `json:"complexity"`
	CognitiveLoadType        LoadType `json:"cognitive_load_type"`
	IdealEnergyLevel         Level    `json:"ideal_energy_level"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
}

type TimeBlock struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	EnergyLevel Level     `json:"energy_level"`
	Available   bool      `json:"available"`
}

// Event is an existing calendar entry that makes overlapping blocks unavailable.
type Event struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

type CognitiveProfile struct {
	Chronotype      Chronotype `json:"chronotype"`
	PeakHours       []int      `json:"peak_hours"`
	ProductiveHours []int      `json:"productive_hours"`
	LowEnergyHours  []int      `json:"low_energy_hours"`

	FocusSessionDuration int `json:"focus_session_duration"`
	BreakDuration        int `json:"break_duration"`

	// Not derived from behaviour yet; always DefaultContextSwitchingCost and
	// DefaultDistractionSensitivity.
	ContextSwitchingCost   int `json:"context_switching_cost"`
	DistractionSensitivity int `json:"distraction_sensitivity"`

	WorkdayStartHour int `json:"workday_start_hour"`
	WorkdayEndHour   int `json:"workday_end_hour"`
}

// Assignment pairs a task with the first block of the run it occupies.
type Assignment struct {
	Task       CognitiveTask `json:"task"`
	TimeBlock  TimeBlock     `json:"time_block"`
	EndTime    time.Time     `json:"end_time"`
	BlockCount int           `json:"block_count"`
}

type DayPlan struct {
	Date        time.Time        `json:"date"`
	Profile     CognitiveProfile `json:"profile"`
	Blocks      []TimeBlock      `json:"blocks"`
	Assignments []Assignment     `json:"assignments"`
	Unscheduled []int            `json:"unscheduled_task_ids"`
}
