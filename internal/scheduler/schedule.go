package scheduler

import (
	"sort"
	"time"
)

// ScheduleTasks greedily places tasks, most urgent and most complex first,
// onto runs of contiguous available blocks. A run is scored by how well each
// block's energy matches the task's ideal energy; the first best run wins.
// Tasks that do not fit are left out. Neither argument is modified.
//
// There is no backtracking: an earlier task may take blocks a later one
// would have used better, or leave it with nowhere to go.
func ScheduleTasks(tasks []CognitiveTask, blocks []TimeBlock) []Assignment {
	queue := make([]CognitiveTask, len(tasks))
	copy(queue, tasks)
	for i := range queue {
		enrich(&queue[i])
	}

	sort.SliceStable(queue, func(i, j int) bool {
		pi, pj := priorityRank(queue[i].Priority), priorityRank(queue[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return levelRank(queue[i].Complexity) < levelRank(queue[j].Complexity)
	})

	available := make([]TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Available {
			available = append(available, b)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].StartTime.Before(available[j].StartTime)
	})

	used := make([]bool, len(available))
	out := make([]Assignment, 0, len(queue))
	capacity := len(available) * BlockMinutes
	for _, task := range queue {
		if task.EstimatedDurationMinutes > capacity {
			continue
		}
		needed := blocksNeeded(task.EstimatedDurationMinutes)

		start, ok := bestRun(available, used, needed, task.IdealEnergyLevel)
		if !ok {
			continue
		}
		for k := start; k < start+needed; k++ {
			used[k] = true
		}

		out = append(out, Assignment{
			Task:       task,
			TimeBlock:  available[start],
			EndTime:    available[start+needed-1].EndTime,
			BlockCount: needed,
		})
	}
	return out
}

// PlanDay schedules the open tasks (pending or in progress) on date.
func PlanDay(tasks []Task, date time.Time, profile CognitiveProfile, events []Event) DayPlan {
	open := make([]CognitiveTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == StatusCompleted || t.Status == StatusCancelled {
			continue
		}
		open = append(open, Classify(t))
	}

	blocks := GenerateTimeBlocks(date, profile, events)
	assignments := ScheduleTasks(open, blocks)

	placed := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		placed[a.Task.ID] = true
	}
	unscheduled := make([]int, 0)
	for _, t := range open {
		if !placed[t.ID] {
			unscheduled = append(unscheduled, t.ID)
		}
	}

	return DayPlan{
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Profile:     profile,
		Blocks:      blocks,
		Assignments: assignments,
		Unscheduled: unscheduled,
	}
}

func blocksNeeded(minutes int) int {
	if minutes <= 0 {
		return 1
	}
	return (minutes + BlockMinutes - 1) / BlockMinutes
}

func bestRun(blocks []TimeBlock, used []bool, needed int, ideal Level) (int, bool) {
	bestStart, bestScore := -1, -1
	for i := range blocks {
		if used[i] {
			continue
		}
		score, ok := runScore(blocks, used, i, needed, ideal)
		if ok && score > bestScore {
			bestStart, bestScore = i, score
		}
	}
	return bestStart, bestStart >= 0
}

// runScore scores blocks[i:i+needed] if they form one unbroken, unused run.
func runScore(blocks []TimeBlock, used []bool, i, needed int, ideal Level) (int, bool) {
	if i+needed > len(blocks) {
		return 0, false
	}
	score := 0
	for k := i; k < i+needed; k++ {
		if used[k] {
			return 0, false
		}
		if k > i && !blocks[k].StartTime.Equal(blocks[k-1].EndTime) {
			return 0, false
		}
		score += energyMatch(blocks[k].EnergyLevel, ideal)
	}
	return score, true
}

func energyMatch(block, ideal Level) int {
	b, t := energyValue(block), energyValue(ideal)
	switch {
	case b < 0 || t < 0:
		return 0
	case b == t:
		return 3
	case b-t == 1 || t-b == 1:
		return 1
	default:
		return 0
	}
}

func energyValue(l Level) int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	default:
		return -1
	}
}

// priorityRank sorts high first and unknown or missing last.
func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func levelRank(l Level) int {
	switch l {
	case LevelHigh:
		return 0
	case LevelMedium:
		return 1
	case LevelLow:
		return 2
	default:
		return 3
	}
}
