package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(hour, minute int, energy Level, available bool) TimeBlock {
	start := at(hour, minute)
	return TimeBlock{StartTime: start, EndTime: start.Add(30 * time.Minute), EnergyLevel: energy, Available: available}
}

func TestScheduleTasks_PrefersMatchingEnergy(t *testing.T) {
	profile := CognitiveProfile{PeakHours: []int{14}}
	blocks := GenerateTimeBlocks(testDay, profile, nil)

	task := Classify(Task{ID: 1, Title: "Analyze architecture", Priority: PriorityHigh, EstimatedPomodoros: 1})
	require.Equal(t, LevelHigh, task.IdealEnergyLevel)

	got := ScheduleTasks([]CognitiveTask{task}, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, at(14, 0), got[0].TimeBlock.StartTime)
	assert.Equal(t, at(14, 30), got[0].EndTime)
	assert.Equal(t, 1, got[0].BlockCount)
}

func TestScheduleTasks_AdjacentEnergyBeatsMismatch(t *testing.T) {
	blocks := []TimeBlock{
		block(8, 0, LevelLow, true),
		block(8, 30, LevelMedium, true),
	}
	task := CognitiveTask{Task: Task{ID: 1, Title: "x"}, Complexity: LevelHigh, CognitiveLoadType: LoadFocus, IdealEnergyLevel: LevelHigh, EstimatedDurationMinutes: 25}

	got := ScheduleTasks([]CognitiveTask{task}, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, at(8, 30), got[0].TimeBlock.StartTime)
}

func TestScheduleTasks_FirstRunWinsTies(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, nil)
	task := CognitiveTask{Task: Task{ID: 1}, Complexity: LevelMedium, CognitiveLoadType: LoadCreativity, IdealEnergyLevel: LevelMedium, EstimatedDurationMinutes: 60}

	got := ScheduleTasks([]CognitiveTask{task}, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, at(8, 0), got[0].TimeBlock.StartTime)
	assert.Equal(t, 2, got[0].BlockCount)
}

func TestScheduleTasks_RunsSkipUnavailableBlocks(t *testing.T) {
	blocks := []TimeBlock{
		block(8, 0, LevelMedium, true),
		block(8, 30, LevelMedium, false),
		block(9, 0, LevelMedium, true),
		block(9, 30, LevelMedium, true),
	}
	task := Classify(Task{ID: 7, Title: "Two blocks", Priority: PriorityLow, EstimatedPomodoros: 2})

	got := ScheduleTasks([]CognitiveTask{task}, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, at(9, 0), got[0].TimeBlock.StartTime)
	assert.Equal(t, at(10, 0), got[0].EndTime)
}

func TestScheduleTasks_DropsTasksThatDoNotFit(t *testing.T) {
	blocks := []TimeBlock{
		block(8, 0, LevelMedium, true),
		block(8, 30, LevelMedium, true),
	}
	task := Classify(Task{ID: 1, Title: "Long one", EstimatedPomodoros: 3})

	assert.Empty(t, ScheduleTasks([]CognitiveTask{task}, blocks))
}

func TestScheduleTasks_HugeEstimatesDoNotFit(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, nil)
	huge := CognitiveTask{Task: Task{ID: 1}, Complexity: LevelLow, CognitiveLoadType: LoadRoutine, IdealEnergyLevel: LevelLow, EstimatedDurationMinutes: math.MaxInt}
	many := Classify(Task{ID: 2, Title: "Endless", EstimatedPomodoros: math.MaxInt})
	small := Classify(Task{ID: 3, Title: "Short", EstimatedPomodoros: 1})

	got := ScheduleTasks([]CognitiveTask{huge, many, small}, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Task.ID)
}

func TestScheduleTasks_PriorityOrderAndMissingPriorityLast(t *testing.T) {
	blocks := []TimeBlock{block(8, 0, LevelMedium, true)}
	tasks := []CognitiveTask{
		Classify(Task{ID: 1, Title: "No priority", EstimatedPomodoros: 1}),
		Classify(Task{ID: 2, Title: "Low priority", Priority: PriorityLow, EstimatedPomodoros: 1}),
	}

	got := ScheduleTasks(tasks, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Task.ID)
}

func TestScheduleTasks_ComplexityBreaksPriorityTies(t *testing.T) {
	blocks := []TimeBlock{block(8, 0, LevelMedium, true)}
	tasks := []CognitiveTask{
		{Task: Task{ID: 1, Priority: PriorityMedium}, Complexity: LevelLow, CognitiveLoadType: LoadRoutine, IdealEnergyLevel: LevelLow, EstimatedDurationMinutes: 25},
		{Task: Task{ID: 2, Priority: PriorityMedium}, Complexity: LevelHigh, CognitiveLoadType: LoadFocus, IdealEnergyLevel: LevelHigh, EstimatedDurationMinutes: 25},
	}

	got := ScheduleTasks(tasks, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Task.ID)
}

func TestScheduleTasks_NoDoubleBooking(t *testing.T) {
	profile := CreateCognitiveProfile(TimerSettings{EarlyBirdMode: true})
	events := []Event{{Start: at(12, 0), End: at(13, 0)}}
	blocks := GenerateTimeBlocks(testDay, profile, events)

	tasks := []CognitiveTask{
		Classify(Task{ID: 1, Title: "Design system architecture", Priority: PriorityHigh, EstimatedPomodoros: 4}),
		Classify(Task{ID: 2, Title: "Answer email", Priority: PriorityLow, EstimatedPomodoros: 1}),
		Classify(Task{ID: 3, Title: "Study the course", Priority: PriorityMedium, EstimatedPomodoros: 3}),
		Classify(Task{ID: 4, Title: "Brainstorm campaign", Priority: PriorityMedium, Category: "marketing"}),
		Classify(Task{ID: 5, Title: "Implement algorithm", Priority: PriorityHigh, EstimatedPomodoros: 6}),
		Classify(Task{ID: 6, Title: "Huge migration", Priority: PriorityLow, EstimatedPomodoros: 12}),
	}

	got := ScheduleTasks(tasks, blocks)
	require.NotEmpty(t, got)

	type span struct{ start, end time.Time }
	var spans []span
	firstBlocks := map[time.Time]int{}
	for _, a := range got {
		firstBlocks[a.TimeBlock.StartTime]++
		assert.Equal(t, a.EndTime, a.TimeBlock.StartTime.Add(time.Duration(a.BlockCount)*30*time.Minute))
		spans = append(spans, span{a.TimeBlock.StartTime, a.EndTime})

		assert.False(t, a.TimeBlock.StartTime.Before(at(13, 0)) && a.EndTime.After(at(12, 0)), "task %d overlaps the event", a.Task.ID)
	}
	for start, n := range firstBlocks {
		assert.Equal(t, 1, n, "block %s assigned %d times", start, n)
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			overlap := spans[i].start.Before(spans[j].end) && spans[j].start.Before(spans[i].end)
			assert.False(t, overlap, "runs %d and %d overlap", i, j)
		}
	}
}

func TestScheduleTasks_EnrichmentIsIdempotent(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, nil)
	tasks := []CognitiveTask{
		{
			Task:                     Task{ID: 1, Title: "Research and analyze market data", Priority: PriorityHigh, EstimatedPomodoros: 5},
			Complexity:               LevelLow,
			CognitiveLoadType:        LoadRoutine,
			IdealEnergyLevel:         LevelLow,
			EstimatedDurationMinutes: 30,
		},
	}

	first := ScheduleTasks(tasks, blocks)
	second := ScheduleTasks(tasks, blocks)

	require.Len(t, first, 1)
	assert.Equal(t, LevelLow, first[0].Task.Complexity)
	assert.Equal(t, LoadRoutine, first[0].Task.CognitiveLoadType)
	assert.Equal(t, LevelLow, first[0].Task.IdealEnergyLevel)
	assert.Equal(t, 30, first[0].Task.EstimatedDurationMinutes)
	assert.Equal(t, first, second)
}

func TestScheduleTasks_DoesNotMutateInputs(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, nil)
	blocksBefore := append([]TimeBlock(nil), blocks...)
	tasks := []CognitiveTask{{Task: Task{ID: 1, Title: "Write tests", Priority: PriorityMedium, EstimatedPomodoros: 2}}}

	got := ScheduleTasks(tasks, blocks)

	require.Len(t, got, 1)
	assert.Empty(t, tasks[0].Complexity)
	assert.Equal(t, blocksBefore, blocks)
}

func TestScheduleTasks_IsDeterministic(t *testing.T) {
	profile := CreateCognitiveProfile(TimerSettings{NightOwlMode: true})
	blocks := GenerateTimeBlocks(testDay, profile, nil)
	tasks := []CognitiveTask{
		Classify(Task{ID: 1, Title: "Review pull requests", Priority: PriorityMedium, EstimatedPomodoros: 2}),
		Classify(Task{ID: 2, Title: "Plan sprint", Priority: PriorityHigh, EstimatedPomodoros: 2}),
		Classify(Task{ID: 3, Title: "Clean inbox", Priority: PriorityLow, EstimatedPomodoros: 1}),
	}

	assert.Equal(t, ScheduleTasks(tasks, blocks), ScheduleTasks(tasks, blocks))
}

func TestPlanDay(t *testing.T) {
	tasks := []Task{
		{ID: 1, Title: "Write report", Priority: PriorityHigh, Status: StatusPending, EstimatedPomodoros: 2},
		{ID: 2, Title: "Old task", Priority: PriorityHigh, Status: StatusCompleted, EstimatedPomodoros: 1},
		{ID: 3, Title: "Cancelled", Priority: PriorityLow, Status: StatusCancelled, EstimatedPomodoros: 1},
		{ID: 4, Title: "Giant", Priority: PriorityLow, Status: StatusInProgress, EstimatedPomodoros: 30},
	}
	profile := CreateCognitiveProfile(TimerSettings{PomodoroDuration: 25, ShortBreakDuration: 5})

	plan := PlanDay(tasks, testDay, profile, nil)

	assert.Equal(t, at(0, 0), plan.Date)
	assert.Len(t, plan.Blocks, 20)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, 1, plan.Assignments[0].Task.ID)
	assert.Equal(t, []int{4}, plan.Unscheduled)
}
