package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, time.March, 10, 15, 42, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestGenerateTimeBlocks_CoversWorkingDay(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, nil)

	require.Len(t, blocks, 20)
	assert.Equal(t, at(8, 0), blocks[0].StartTime)
	assert.Equal(t, at(18, 0), blocks[len(blocks)-1].EndTime)

	for i, b := range blocks {
		assert.Equal(t, 30*time.Minute, b.EndTime.Sub(b.StartTime))
		assert.Contains(t, []Level{LevelLow, LevelMedium, LevelHigh}, b.EnergyLevel)
		assert.True(t, b.Available)
		if i > 0 {
			assert.Equal(t, blocks[i-1].EndTime, b.StartTime, "block %d is not contiguous", i)
		}
	}
}

func TestGenerateTimeBlocks_EnergyFromPeakHours(t *testing.T) {
	profile := CognitiveProfile{PeakHours: []int{9, 10}, LowEnergyHours: []int{16}}

	blocks := GenerateTimeBlocks(testDay, profile, nil)

	byStart := map[time.Time]Level{}
	for _, b := range blocks {
		byStart[b.StartTime] = b.EnergyLevel
	}
	assert.Equal(t, LevelHigh, byStart[at(9, 0)])
	assert.Equal(t, LevelHigh, byStart[at(9, 30)])
	assert.Equal(t, LevelMedium, byStart[at(13, 0)])
	assert.Equal(t, LevelLow, byStart[at(16, 30)])
}

func TestGenerateTimeBlocks_EventsBlockOverlaps(t *testing.T) {
	events := []Event{{Start: at(10, 15), End: at(11, 0)}}

	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{}, events)

	unavailable := []time.Time{}
	for _, b := range blocks {
		if !b.Available {
			unavailable = append(unavailable, b.StartTime)
		}
	}
	assert.Equal(t, []time.Time{at(10, 0), at(10, 30)}, unavailable)
}

func TestGenerateTimeBlocks_CustomWorkday(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{WorkdayStartHour: 9, WorkdayEndHour: 12}, nil)

	require.Len(t, blocks, 6)
	assert.Equal(t, at(9, 0), blocks[0].StartTime)
	assert.Equal(t, at(12, 0), blocks[5].EndTime)
}

func TestGenerateTimeBlocks_InvalidWorkdayFallsBack(t *testing.T) {
	blocks := GenerateTimeBlocks(testDay, CognitiveProfile{WorkdayStartHour: 17, WorkdayEndHour: 9}, nil)

	require.Len(t, blocks, 20)
	assert.Equal(t, at(8, 0), blocks[0].StartTime)
}

func TestGenerateTimeBlocks_UsesDateLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, time.March, 10, 1, 0, 0, 0, loc)

	blocks := GenerateTimeBlocks(date, CognitiveProfile{}, nil)

	assert.Equal(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, loc), blocks[0].StartTime)
}

func TestCreateCognitiveProfile(t *testing.T) {
	tests := []struct {
		name     string
		settings TimerSettings
		want     Chronotype
		peak     []int
	}{
		{"early bird", TimerSettings{EarlyBirdMode: true}, EarlyBird, []int{6, 7, 8, 9}},
		{"night owl", TimerSettings{NightOwlMode: true}, NightOwl, []int{20, 21, 22, 23}},
		{"both flags prefer early bird", TimerSettings{EarlyBirdMode: true, NightOwlMode: true}, EarlyBird, []int{6, 7, 8, 9}},
		{"no flags", TimerSettings{}, Intermediate, []int{10, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.settings.PomodoroDuration = 50
			tt.settings.ShortBreakDuration = 10

			p := CreateCognitiveProfile(tt.settings)

			assert.Equal(t, tt.want, p.Chronotype)
			assert.Equal(t, tt.peak, p.PeakHours)
			assert.Equal(t, 50, p.FocusSessionDuration)
			assert.Equal(t, 10, p.BreakDuration)
			assert.Equal(t, DefaultContextSwitchingCost, p.ContextSwitchingCost)
			assert.Equal(t, DefaultDistractionSensitivity, p.DistractionSensitivity)
			assert.Equal(t, DefaultWorkdayStart, p.WorkdayStartHour)
			assert.Equal(t, DefaultWorkdayEnd, p.WorkdayEndHour)
		})
	}
}

func TestCreateCognitiveProfile_HourSetsAreDisjoint(t *testing.T) {
	for _, ct := range []Chronotype{EarlyBird, NightOwl, Intermediate} {
		seen := map[int]bool{}
		h := chronotypeHours[ct]
		for _, set := range [][]int{h.peak, h.productive, h.low} {
			for _, hour := range set {
				assert.False(t, seen[hour], "%s: hour %d appears twice", ct, hour)
				seen[hour] = true
			}
		}
	}
}

func TestCreateCognitiveProfile_DoesNotShareHourSlices(t *testing.T) {
	p := CreateCognitiveProfile(TimerSettings{})
	p.PeakHours[0] = 3

	assert.Equal(t, 10, CreateCognitiveProfile(TimerSettings{}).PeakHours[0])
}
