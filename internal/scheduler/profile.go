package scheduler

const (
	DefaultContextSwitchingCost   = 5
	DefaultDistractionSensitivity = 5
)

// TimerSettings is the resolved subset of user settings the profile is built from.
type TimerSettings struct {
	PomodoroDuration   int  `json:"pomodoro_duration" yaml:"pomodoro_duration"`
	ShortBreakDuration int  `json:"short_break_duration" yaml:"short_break_duration"`
	EarlyBirdMode      bool `json:"early_bird_mode" yaml:"early_bird_mode"`
	NightOwlMode       bool `json:"night_owl_mode" yaml:"night_owl_mode"`
	WorkStartHour      int  `json:"work_start_hour" yaml:"work_start_hour"`
	WorkEndHour        int  `json:"work_end_hour" yaml:"work_end_hour"`
}

type hourSets struct {
	peak, productive, low []int
}

var chronotypeHours = map[Chronotype]hourSets{
	EarlyBird: {
		peak:       []int{6, 7, 8, 9},
		productive: []int{10, 11, 14, 15},
		low:        []int{13, 19, 20, 21, 22},
	},
	NightOwl: {
		peak:       []int{20, 21, 22, 23},
		productive: []int{14, 15, 16, 17, 18, 19},
		low:        []int{6, 7, 8, 9, 10},
	},
	Intermediate: {
		peak:       []int{10, 11},
		productive: []int{9, 14, 15, 16},
		low:        []int{13, 17},
	},
}

// CreateCognitiveProfile picks the chronotype from the settings flags.
// Early bird wins when both flags are set.
func CreateCognitiveProfile(settings TimerSettings) CognitiveProfile {
	chronotype := Intermediate
	switch {
	case settings.EarlyBirdMode:
		chronotype = EarlyBird
	case settings.NightOwlMode:
		chronotype = NightOwl
	}
	hours := chronotypeHours[chronotype]

	p := CognitiveProfile{
		Chronotype:             chronotype,
		PeakHours:              append([]int(nil), hours.peak...),
		ProductiveHours:        append([]int(nil), hours.productive...),
		LowEnergyHours:         append([]int(nil), hours.low...),
		FocusSessionDuration:   settings.PomodoroDuration,
		BreakDuration:          settings.ShortBreakDuration,
		ContextSwitchingCost:   DefaultContextSwitchingCost,
		DistractionSensitivity: DefaultDistractionSensitivity,
		WorkdayStartHour:       settings.WorkStartHour,
		WorkdayEndHour:         settings.WorkEndHour,
	}
	p.WorkdayStartHour, p.WorkdayEndHour = p.workday()
	return p
}
