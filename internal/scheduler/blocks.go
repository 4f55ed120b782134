package scheduler

import "time"

// GenerateTimeBlocks splits the profile's working window on date into
// 30-minute blocks in date's location. Blocks overlapping an event are
// marked unavailable.
func GenerateTimeBlocks(date time.Time, profile CognitiveProfile, events []Event) []TimeBlock {
	start, end := profile.workday()

	peak := hourSet(profile.PeakHours)
	productive := hourSet(profile.ProductiveHours)
	low := hourSet(profile.LowEnergyHours)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	blocks := make([]TimeBlock, 0, 2*(end-start))
	for hour := start; hour < end; hour++ {
		for _, minute := range []int{0, BlockMinutes} {
			blockStart := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			blockEnd := blockStart.Add(BlockMinutes * time.Minute)

			blocks = append(blocks, TimeBlock{
				StartTime:   blockStart,
				EndTime:     blockEnd,
				EnergyLevel: energyForHour(hour, peak, productive, low),
				Available:   !overlapsAny(blockStart, blockEnd, events),
			})
		}
	}
	return blocks
}

func energyForHour(hour int, peak, productive, low map[int]bool) Level {
	switch {
	case peak[hour]:
		return LevelHigh
	case productive[hour]:
		return LevelMedium
	case low[hour]:
		return LevelLow
	default:
		return LevelMedium
	}
}

func overlapsAny(start, end time.Time, events []Event) bool {
	for _, ev := range events {
		if start.Before(ev.End) && end.After(ev.Start) {
			return true
		}
	}
	return false
}

func hourSet(hours []int) map[int]bool {
	m := make(map[int]bool, len(hours))
	for _, h := range hours {
		m[h] = true
	}
	return m
}

// workday falls back to 8–18 when the configured window is empty or out of range.
func (p CognitiveProfile) workday() (int, int) {
	start, end := p.WorkdayStartHour, p.WorkdayEndHour
	if start < 0 || end > 24 || end <= start {
		return DefaultWorkdayStart, DefaultWorkdayEnd
	}
	return start, end
}
