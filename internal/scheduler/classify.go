package scheduler

import (
	"math"
	"strings"
)

var complexityKeywords = []string{
	"analyze", "research", "design", "architecture", "algorithm", "strategy", "optimize",
	"integrate", "refactor", "implement", "investigate", "evaluate", "migrate", "develop",
}

// loadTypeOrder fixes iteration order so ties resolve the same way every run.
var loadTypeOrder = []LoadType{LoadFocus, LoadCreativity, LoadDecisionMaking, LoadLearning, LoadRoutine}

var loadTypeKeywords = map[LoadType][]string{
	LoadFocus: {
		"code", "write", "develop", "implement", "debug", "review", "analyze", "program", "fix", "build",
	},
	LoadCreativity: {
		"design", "create", "brainstorm", "ideate", "sketch", "draft", "innovate", "compose", "invent", "imagine",
	},
	LoadDecisionMaking: {
		"decide", "choose", "evaluate", "prioritize", "plan", "strategy", "approve", "assess", "select", "compare",
	},
	LoadLearning: {
		"learn", "study", "read", "research", "course", "tutorial", "practice", "understand", "explore", "training",
	},
	LoadRoutine: {
		"email", "file", "organize", "schedule", "update", "clean", "sort", "call", "meeting", "admin",
	},
}

var creativeCategories = map[string]bool{
	"design":    true,
	"content":   true,
	"marketing": true,
	"creative":  true,
}

// ComplexityScore is the additive score behind EstimateTaskComplexity.
func ComplexityScore(task Task) int {
	score := 0

	switch p := task.EstimatedPomodoros; {
	case p >= 5:
		score += 3
	case p >= 3:
		score += 2
	case p > 0:
		score++
	}

	switch task.Priority {
	case PriorityHigh:
		score += 2
	case PriorityMedium:
		score++
	}

	switch words := len(strings.Fields(task.Description)); {
	case words > 100:
		score += 2
	case words > 50:
		score++
	}

	title := strings.ToLower(task.Title)
	for _, kw := range complexityKeywords {
		if strings.Contains(title, kw) {
			score++
		}
	}

	return score
}

func EstimateTaskComplexity(task Task) Level {
	switch score := ComplexityScore(task); {
	case score >= 5:
		return LevelHigh
	case score >= 3:
		return LevelMedium
	default:
		return LevelLow
	}
}

func DetermineCognitiveLoadType(task Task) LoadType {
	text := strings.ToLower(task.Title + " " + task.Description)

	var best, runnerUp int
	bestType := LoadFocus
	for _, lt := range loadTypeOrder {
		n := 0
		for _, kw := range loadTypeKeywords[lt] {
			if strings.Contains(text, kw) {
				n++
			}
		}
		switch {
		case n > best:
			runnerUp = best
			best, bestType = n, lt
		case n > runnerUp:
			runnerUp = n
		}
	}

	if best > 0 && best > runnerUp {
		return bestType
	}

	switch {
	case task.EstimatedPomodoros <= 1:
		return LoadRoutine
	case task.Priority == PriorityHigh:
		return LoadFocus
	case creativeCategories[strings.ToLower(strings.TrimSpace(task.Category))]:
		return LoadCreativity
	default:
		return LoadFocus
	}
}

// DetermineIdealEnergyLevel uses the task's Complexity and CognitiveLoadType
// as they are set; an empty complexity is treated as low.
func DetermineIdealEnergyLevel(task CognitiveTask) Level {
	switch task.Complexity {
	case LevelHigh:
		return LevelHigh
	case LevelMedium:
		switch task.CognitiveLoadType {
		case LoadFocus, LoadDecisionMaking, LoadLearning:
			return LevelHigh
		}
		return LevelMedium
	default:
		if task.CognitiveLoadType == LoadRoutine {
			return LevelLow
		}
		return LevelMedium
	}
}

// Classify derives the cognitive attributes of a task.
func Classify(task Task) CognitiveTask {
	ct := CognitiveTask{Task: task}
	enrich(&ct)
	return ct
}

// enrich fills only the attributes that are still empty.
func enrich(ct *CognitiveTask) {
	if ct.Complexity == "" {
		ct.Complexity = EstimateTaskComplexity(ct.Task)
	}
	if ct.CognitiveLoadType == "" {
		ct.CognitiveLoadType = DetermineCognitiveLoadType(ct.Task)
	}
	if ct.IdealEnergyLevel == "" {
		ct.IdealEnergyLevel = DetermineIdealEnergyLevel(*ct)
	}
	if ct.EstimatedDurationMinutes <= 0 {
		ct.EstimatedDurationMinutes = estimateDuration(ct.EstimatedPomodoros, ct.Complexity)
	}
}

func estimateDuration(pomodoros int, complexity Level) int {
	if pomodoros > 0 {
		if pomodoros > math.MaxInt/MinutesPerPomodoro {
			return math.MaxInt
		}
		return pomodoros * MinutesPerPomodoro
	}
	switch complexity {
	case LevelHigh:
		return 60
	case LevelMedium:
		return 45
	default:
		return 25
	}
}
