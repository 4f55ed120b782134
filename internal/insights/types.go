package insights

// TimeOfDay buckets a session start hour.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // 05:00-12:00
	Afternoon TimeOfDay = "afternoon" // 12:00-17:00
	Evening   TimeOfDay = "evening"   // 17:00-22:00
	Night     TimeOfDay = "night"     // 22:00-05:00
)

var timeOfDayOrder = []TimeOfDay{Morning, Afternoon, Evening, Night}

func timeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}

// SessionRecommendation suggests timer durations in minutes. Confidence is
// 0-100; CompletionRate is a fraction.
type SessionRecommendation struct {
	WorkDuration         int        `json:"work_duration"`
	ShortBreakDuration   int        `json:"short_break_duration"`
	LongBreakDuration    int        `json:"long_break_duration"`
	OptimalTimeOfDay     *TimeOfDay `json:"optimal_time_of_day"`
	Confidence           int        `json:"confidence"`
	SessionCount         int        `json:"session_count"`
	CompletionRate       float64    `json:"completion_rate"`
	AverageInterruptions float64    `json:"average_interruptions"`
}

// UserFocusPattern summarises the trailing window of work sessions.
// CompletionRate is a percentage.
type UserFocusPattern struct {
	OptimalTimeOfDay       *TimeOfDay `json:"optimal_time_of_day"`
	MostProductiveDay      *string    `json:"most_productive_day"`
	OptimalSessionDuration *int       `json:"optimal_session_duration"`
	AverageInterruptions   float64    `json:"average_interruptions"`
	CompletionRate         float64    `json:"completion_rate"`
	FocusScore             int        `json:"focus_score"`
	SessionCount           int        `json:"session_count"`
}

// DailyStat covers one calendar day of work sessions.
type DailyStat struct {
	Date                string `json:"date"`
	WorkSessions        int    `json:"work_sessions"`
	CompletedSessions   int    `json:"completed_sessions"`
	InterruptedSessions int    `json:"interrupted_sessions"`
	Interruptions       int    `json:"interruptions"`
	FocusMinutes        int    `json:"focus_minutes"`
	FocusScore          int    `json:"focus_score"`
}

// FocusPatterns is the derived view the insight rules read. ConsistencyScore
// is a percentage of days; InterruptionRate is a fraction.
type FocusPatterns struct {
	Pattern          UserFocusPattern `json:"pattern"`
	FocusScoreTrend  Trend            `json:"focus_score_trend"`
	ConsistencyScore int              `json:"consistency_score"`
	InterruptionRate float64          `json:"interruption_rate"`
	CurrentStreak    int              `json:"current_streak"`
	ActiveDays       int              `json:"active_days"`
}

type AIInsight struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority"`
	Category        string   `json:"category"`
	Actionable      bool     `json:"actionable"`
	SuggestedAction string   `json:"suggested_action,omitempty"`
}

// Report is the full insights payload for a user.
type Report struct {
	Patterns FocusPatterns `json:"patterns"`
	Daily    []DailyStat   `json:"daily"`
	Insights []AIInsight   `json:"insights"`
}
