package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"focus-planner-backend/internal/sessions"
)

const (
	// MinSessionsForRecommendation is the history below which the defaults are returned.
	MinSessionsForRecommendation = 5

	DefaultWorkDuration       = 25
	DefaultShortBreakDuration = 5
	DefaultLongBreakDuration  = 15

	minRecommendedWork = 15
	maxRecommendedWork = 45

	recommendationModeMin = 3
	patternModeMin        = 2
	timeOfDayMinSessions  = 3
	weekdayMinSessions    = 2
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func DefaultRecommendation() SessionRecommendation {
	return SessionRecommendation{
		WorkDuration:       DefaultWorkDuration,
		ShortBreakDuration: DefaultShortBreakDuration,
		LongBreakDuration:  DefaultLongBreakDuration,
	}
}

// Recommend derives timer durations from a user's work sessions.
func Recommend(work []sessions.Session, loc *time.Location) SessionRecommendation {
	n := len(work)
	if n < MinSessionsForRecommendation {
		rec := DefaultRecommendation()
		rec.SessionCount = n
		rec.Confidence = min(n*5, 25)
		return rec
	}

	var (
		completed     []int
		interruptions int
	)
	for _, s := range work {
		interruptions += s.InterruptionCount
		if s.IsCompleted {
			completed = append(completed, s.Duration)
		}
	}

	rate := float64(len(completed)) / float64(n)
	avgInt := float64(interruptions) / float64(n)

	w := recommendedWorkDuration(completed)
	return SessionRecommendation{
		WorkDuration:         w,
		ShortBreakDuration:   max(3, roundInt(float64(w)/5)),
		LongBreakDuration:    max(10, roundInt(float64(w)/2)),
		OptimalTimeOfDay:     busiestTimeOfDay(work, loc),
		Confidence:           recommendationConfidence(len(completed), rate, avgInt),
		SessionCount:         n,
		CompletionRate:       rate,
		AverageInterruptions: avgInt,
	}
}

func recommendedWorkDuration(completed []int) int {
	if len(completed) == 0 {
		return DefaultWorkDuration
	}
	if mode, count := modeOf(completed); count >= recommendationModeMin {
		return mode
	}

	sum := 0
	for _, d := range completed {
		sum += d
	}
	mean := float64(sum) / float64(len(completed))
	rounded := int(math.Round(mean/5) * 5)
	return min(max(rounded, minRecommendedWork), maxRecommendedWork)
}

func recommendationConfidence(completed int, rate, avgInterruptions float64) int {
	countPts := math.Min(float64(completed)/10*30, 30)
	ratePts := rate * 40
	calmPts := (1 - math.Min(avgInterruptions, 5)/5) * 30
	return min(max(roundInt(countPts+ratePts+calmPts), 0), 100)
}

// busiestTimeOfDay is the bucket with the most session starts.
func busiestTimeOfDay(work []sessions.Session, loc *time.Location) *TimeOfDay {
	if len(work) == 0 {
		return nil
	}
	counts := make(map[TimeOfDay]int, len(timeOfDayOrder))
	for _, s := range work {
		counts[timeOfDayForHour(s.StartedAt.In(loc).Hour())]++
	}

	best, bestCount := TimeOfDay(""), 0
	for _, tod := range timeOfDayOrder {
		if counts[tod] > bestCount {
			best, bestCount = tod, counts[tod]
		}
	}
	return &best
}

type tally struct {
	total, completed int
}

func (t tally) rate() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.completed) / float64(t.total)
}

// FocusPatternOf summarises work sessions. No sessions yields the zero
// pattern.
func FocusPatternOf(work []sessions.Session, loc *time.Location) UserFocusPattern {
	n := len(work)
	if n == 0 {
		return UserFocusPattern{}
	}

	var (
		byTime        = make(map[TimeOfDay]tally, len(timeOfDayOrder))
		byDay         = make(map[time.Weekday]tally, 7)
		completed     []int
		interruptions int
	)
	for _, s := range work {
		start := s.StartedAt.In(loc)
		tod, wd := timeOfDayForHour(start.Hour()), start.Weekday()

		bt, bd := byTime[tod], byDay[wd]
		bt.total++
		bd.total++
		if s.IsCompleted {
			bt.completed++
			bd.completed++
			completed = append(completed, s.Duration)
		}
		byTime[tod], byDay[wd] = bt, bd
		interruptions += s.InterruptionCount
	}

	p := UserFocusPattern{
		AverageInterruptions: float64(interruptions) / float64(n),
		CompletionRate:       float64(len(completed)) / float64(n) * 100,
		SessionCount:         n,
	}
	p.FocusScore = focusScore(p.CompletionRate, p.AverageInterruptions, n)

	bestRate := -1.0
	for _, tod := range timeOfDayOrder {
		if t := byTime[tod]; t.total >= timeOfDayMinSessions && t.rate() > bestRate {
			p.OptimalTimeOfDay, bestRate = &tod, t.rate()
		}
	}

	bestRate = -1.0
	for _, wd := range weekdayOrder {
		if t := byDay[wd]; t.total >= weekdayMinSessions && t.rate() > bestRate {
			name := strings.ToLower(wd.String())
			p.MostProductiveDay, bestRate = &name, t.rate()
		}
	}

	if mode, count := modeOf(completed); count >= patternModeMin {
		p.OptimalSessionDuration = &mode
	}

	return p
}

// focusScore blends completion rate (percent), interruptions and volume
// into 0-100.
func focusScore(completionPct, avgInterruptions float64, sessionCount int) int {
	volume := math.Min(float64(sessionCount)/20, 1)
	return roundInt(completionPct*0.5 + (1-math.Min(avgInterruptions, 5)/5)*30 + volume*20)
}

// DailyStats buckets work sessions into days calendar days starting at
// from's date in loc. Sessions outside the range are ignored.
func DailyStats(work []sessions.Session, from time.Time, days int, loc *time.Location) []DailyStat {
	if days <= 0 {
		return []DailyStat{}
	}

	first := startOfDay(from, loc)
	out := make([]DailyStat, days)
	index := make(map[string]int, days)
	for i := range out {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		out[i].Date = key
		index[key] = i
	}

	for _, s := range work {
		i, ok := index[s.StartedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		d := &out[i]
		d.WorkSessions++
		d.Interruptions += s.InterruptionCount
		if s.Interrupted || s.InterruptionCount > 0 {
			d.InterruptedSessions++
		}
		if s.IsCompleted {
			d.CompletedSessions++
			d.FocusMinutes += s.Duration
		}
	}

	for i := range out {
		d := &out[i]
		if d.WorkSessions == 0 {
			continue
		}
		pct := float64(d.CompletedSessions) / float64(d.WorkSessions) * 100
		d.FocusScore = focusScore(pct, float64(d.Interruptions)/float64(d.WorkSessions), d.WorkSessions)
	}
	return out
}

// modeOf returns the most frequent value and its count; ties go to the
// smaller value.
func modeOf(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	keys := make([]int, 0, len(counts))
	for v := range counts {
		keys = append(keys, v)
	}
	sort.Ints(keys)

	mode, best := 0, 0
	for _, v := range keys {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode, best
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func roundInt(x float64) int {
	return int(math.Round(x))
}
