// Package insights aggregates focus session history into timer
// recommendations, focus patterns, daily analytics and rule-based insights.
// Entry points never fail: errors are logged and a default value returned.
package insights

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"focus-planner-backend/internal/sessions"
)

const (
	DefaultLookbackDays = 30
	DefaultCacheTTL     = 5 * time.Minute
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	ListSince(ctx context.Context, userID int, since time.Time, kind sessions.Type) ([]sessions.Session, error)
}

// Cache stores JSON-serialisable results by key.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	Sessions SessionReader

	// Cache is optional.
	Cache    Cache
	CacheTTL time.Duration

	Logger       *log.Logger
	Now          func() time.Time
	Location     *time.Location
	LookbackDays int
}

func NewService(reader SessionReader) *Service {
	return &Service{
		Sessions:     reader,
		CacheTTL:     DefaultCacheTTL,
		Logger:       log.Default(),
		Now:          time.Now,
		Location:     time.UTC,
		LookbackDays: DefaultLookbackDays,
	}
}

// GetSessionRecommendations suggests timer durations from the trailing
// window of work sessions.
func (s *Service) GetSessionRecommendations(ctx context.Context, userID int) SessionRecommendation {
	key := cacheKey("recommendations", userID)

	var rec SessionRecommendation
	if s.cacheGet(ctx, key, &rec) {
		return rec
	}

	work, err := s.workSince(ctx, userID, s.windowStart())
	if err != nil {
		s.logger().Printf("[ERROR] session recommendations user_id=%d: %v", userID, err)
		return DefaultRecommendation()
	}

	rec = Recommend(work, s.location())
	s.cacheSet(ctx, key, rec)
	return rec
}

func (s *Service) GetUserFocusPattern(ctx context.Context, userID int) UserFocusPattern {
	key := cacheKey("pattern", userID)

	var p UserFocusPattern
	if s.cacheGet(ctx, key, &p) {
		return p
	}

	work, err := s.workSince(ctx, userID, s.windowStart())
	if err != nil {
		s.logger().Printf("[ERROR] focus pattern user_id=%d: %v", userID, err)
		return UserFocusPattern{}
	}

	p = FocusPatternOf(work, s.location())
	s.cacheSet(ctx, key, p)
	return p
}

// GetDailyAnalytics returns one row per day for the last days days, today
// included, oldest first. days <= 0 uses the lookback window.
func (s *Service) GetDailyAnalytics(ctx context.Context, userID, days int) []DailyStat {
	if days <= 0 {
		days = s.lookback()
	}
	first := s.firstDay(days)

	work, err := s.workSince(ctx, userID, first)
	if err != nil {
		s.logger().Printf("[ERROR] daily analytics user_id=%d days=%d: %v", userID, days, err)
		return []DailyStat{}
	}
	return DailyStats(work, first, days, s.location())
}

// GetInsights runs the pattern, daily and rule stages over one read of the
// window.
func (s *Service) GetInsights(ctx context.Context, userID int) Report {
	key := cacheKey("insights", userID)

	var report Report
	if s.cacheGet(ctx, key, &report) {
		return report
	}

	days := s.lookback()
	work, err := s.workSince(ctx, userID, s.windowStart())
	if err != nil {
		s.logger().Printf("[ERROR] insights user_id=%d: %v", userID, err)
		return Report{
			Patterns: AnalyzePatterns(UserFocusPattern{}, nil),
			Daily:    []DailyStat{},
			Insights: []AIInsight{},
		}
	}

	loc := s.location()
	daily := DailyStats(work, s.firstDay(days), days, loc)
	patterns := AnalyzePatterns(FocusPatternOf(work, loc), daily)

	report = Report{
		Patterns: patterns,
		Daily:    daily,
		Insights: GenerateAIInsights(patterns, daily),
	}
	s.cacheSet(ctx, key, report)
	return report
}

// Invalidate drops the user's cached results.
func (s *Service) Invalidate(ctx context.Context, userID int) {
	if s.Cache == nil {
		return
	}
	err := s.Cache.Delete(ctx,
		cacheKey("recommendations", userID),
		cacheKey("pattern", userID),
		cacheKey("insights", userID),
	)
	if err != nil {
		s.logger().Printf("[WARN] invalidate insights cache user_id=%d: %v", userID, err)
	}
}

func (s *Service) workSince(ctx context.Context, userID int, since time.Time) ([]sessions.Session, error) {
	if s.Sessions == nil {
		return nil, errors.New("no session reader")
	}
	return s.Sessions.ListSince(ctx, userID, since, sessions.TypeWork)
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.Cache == nil {
		return false
	}
	hit, err := s.Cache.Get(ctx, key, dst)
	if err != nil {
		s.logger().Printf("[WARN] insights cache get %s: %v", key, err)
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.Cache == nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, value, ttl); err != nil {
		s.logger().Printf("[WARN] insights cache set %s: %v", key, err)
	}
}

func cacheKey(kind string, userID int) string {
	return fmt.Sprintf("insights:%s:%d", kind, userID)
}

func (s *Service) windowStart() time.Time {
	return s.now().AddDate(0, 0, -s.lookback())
}

// firstDay is midnight of the first of the last days calendar days.
func (s *Service) firstDay(days int) time.Time {
	return startOfDay(s.now(), s.location()).AddDate(0, 0, -(days - 1))
}

func (s *Service) lookback() int {
	if s.LookbackDays > 0 {
		return s.LookbackDays
	}
	return DefaultLookbackDays
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *Service) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
