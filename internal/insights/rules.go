package insights

import (
	"fmt"
	"sort"
)

const (
	trendWindowDays   = 7
	trendThreshold    = 5.0
	consistencyTarget = 50
	interruptionLimit = 0.3
	completionTarget  = 60.0
	streakMilestone   = 7
)

// AnalyzePatterns derives trend, consistency, interruption rate and streak
// from the daily series (oldest first).
func AnalyzePatterns(pattern UserFocusPattern, daily []DailyStat) FocusPatterns {
	fp := FocusPatterns{
		Pattern:         pattern,
		FocusScoreTrend: focusTrend(daily),
	}

	var work, interrupted int
	for _, d := range daily {
		work += d.WorkSessions
		interrupted += d.InterruptedSessions
		if d.CompletedSessions > 0 {
			fp.ActiveDays++
		}
	}
	if len(daily) > 0 {
		fp.ConsistencyScore = roundInt(float64(fp.ActiveDays) / float64(len(daily)) * 100)
	}
	if work > 0 {
		fp.InterruptionRate = float64(interrupted) / float64(work)
	}
	fp.CurrentStreak = currentStreak(daily)

	return fp
}

// focusTrend compares the mean focus score of active days in the last week
// with the week before.
func focusTrend(daily []DailyStat) Trend {
	n := len(daily)
	if n == 0 {
		return TrendStable
	}
	split := max(n-trendWindowDays, 0)
	recent, ok := meanActiveScore(daily[split:])
	if !ok {
		return TrendStable
	}
	previous, ok := meanActiveScore(daily[max(split-trendWindowDays, 0):split])
	if !ok {
		return TrendStable
	}

	switch diff := recent - previous; {
	case diff > trendThreshold:
		return TrendIncreasing
	case diff < -trendThreshold:
		return TrendDecreasing
	}
	return TrendStable
}

func meanActiveScore(days []DailyStat) (float64, bool) {
	sum, n := 0, 0
	for _, d := range days {
		if d.WorkSessions > 0 {
			sum += d.FocusScore
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// currentStreak counts consecutive days ending today with a completed work
// session. A today without one yet does not break the streak.
func currentStreak(daily []DailyStat) int {
	i := len(daily) - 1
	if i >= 0 && daily[i].CompletedSessions == 0 {
		i--
	}
	streak := 0
	for ; i >= 0 && daily[i].CompletedSessions > 0; i-- {
		streak++
	}
	return streak
}

// GenerateAIInsights applies the insight rule table and returns the matches
// ordered high, medium, low.
func GenerateAIInsights(p FocusPatterns, daily []DailyStat) []AIInsight {
	out := make([]AIInsight, 0)

	switch p.FocusScoreTrend {
	case TrendDecreasing:
		out = append(out, AIInsight{
			Type:            "focus_trend",
			Title:           "Your focus is slipping",
			Description:     "Your focus score this week is noticeably lower than last week.",
			Priority:        PriorityHigh,
			Category:        "focus",
			Actionable:      true,
			SuggestedAction: "Look at what changed in your routine and protect your peak hours for deep work.",
		})
	case TrendIncreasing:
		out = append(out, AIInsight{
			Type:        "achievement",
			Title:       "Focus is trending up",
			Description: "Your focus score this week is higher than last week. Keep it going.",
			Priority:    PriorityLow,
			Category:    "focus",
		})
	}

	if len(daily) > 0 && p.ConsistencyScore < consistencyTarget {
		out = append(out, AIInsight{
			Type:            "consistency",
			Title:           "Build a steadier rhythm",
			Description:     fmt.Sprintf("You completed focus sessions on %d%% of recent days.", p.ConsistencyScore),
			Priority:        PriorityMedium,
			Category:        "habits",
			Actionable:      true,
			SuggestedAction: "Pick a fixed time every day for your first focus session.",
		})
	}

	if p.InterruptionRate > interruptionLimit {
		out = append(out, AIInsight{
			Type:            "interruptions",
			Title:           "Frequent interruptions",
			Description:     fmt.Sprintf("%d%% of your focus sessions were interrupted.", roundInt(p.InterruptionRate*100)),
			Priority:        PriorityHigh,
			Category:        "environment",
			Actionable:      true,
			SuggestedAction: "Turn on Do Not Disturb and close chat apps while a session is running.",
		})
	}

	if p.Pattern.SessionCount >= MinSessionsForRecommendation && p.Pattern.CompletionRate < completionTarget {
		action := "Try shorter sessions until finishing them feels easy."
		if d := p.Pattern.OptimalSessionDuration; d != nil {
			action = fmt.Sprintf("Try %d-minute sessions, the length you finish most often.", *d)
		}
		out = append(out, AIInsight{
			Type:            "session_length",
			Title:           "Sessions often go unfinished",
			Description:     fmt.Sprintf("You complete %d%% of your focus sessions.", roundInt(p.Pattern.CompletionRate)),
			Priority:        PriorityMedium,
			Category:        "timer",
			Actionable:      true,
			SuggestedAction: action,
		})
	}

	if tod := p.Pattern.OptimalTimeOfDay; tod != nil {
		out = append(out, AIInsight{
			Type:            "optimal_time",
			Title:           fmt.Sprintf("You focus best in the %s", *tod),
			Description:     fmt.Sprintf("Your highest completion rate is in the %s.", *tod),
			Priority:        PriorityLow,
			Category:        "schedule",
			Actionable:      true,
			SuggestedAction: fmt.Sprintf("Schedule your most demanding tasks in the %s.", *tod),
		})
	}

	if p.CurrentStreak >= streakMilestone {
		out = append(out, AIInsight{
			Type:        "achievement",
			Title:       fmt.Sprintf("%d-day streak", p.CurrentStreak),
			Description: fmt.Sprintf("You have completed a focus session %d days in a row.", p.CurrentStreak),
			Priority:    PriorityLow,
			Category:    "habits",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	return out
}
