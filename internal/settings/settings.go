package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focus-planner-backend/internal/db"
	"focus-planner-backend/internal/scheduler"
)

var ErrInvalid = errors.New("invalid settings")

// Timer holds a user's timer and chronotype preferences. Durations are minutes.
type Timer struct {
	PomodoroDuration   int       `json:"pomodoro_duration"`
	ShortBreakDuration int       `json:"short_break_duration"`
	LongBreakDuration  int       `json:"long_break_duration"`
	EarlyBirdMode      bool      `json:"early_bird_mode"`
	NightOwlMode       bool      `json:"night_owl_mode"`
	WorkStartHour      int       `json:"work_start_hour"`
	WorkEndHour        int       `json:"work_end_hour"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultTimer() Timer {
	return Timer{
		PomodoroDuration:   25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		WorkStartHour:      scheduler.DefaultWorkdayStart,
		WorkEndHour:        scheduler.DefaultWorkdayEnd,
	}
}

func (t Timer) Validate() error {
	switch {
	case t.PomodoroDuration < 1 || t.PomodoroDuration > 180:
		return fmt.Errorf("%w: pomodoro_duration must be 1-180", ErrInvalid)
	case t.ShortBreakDuration < 1 || t.ShortBreakDuration > 60:
		return fmt.Errorf("%w: short_break_duration must be 1-60", ErrInvalid)
	case t.LongBreakDuration < 1 || t.LongBreakDuration > 120:
		return fmt.Errorf("%w: long_break_duration must be 1-120", ErrInvalid)
	case t.WorkStartHour < 0 || t.WorkEndHour > 24 || t.WorkEndHour <= t.WorkStartHour:
		return fmt.Errorf("%w: work hours must satisfy 0 <= start < end <= 24", ErrInvalid)
	}
	return nil
}

// Resolve is the view of the settings the scheduler reads.
func (t Timer) Resolve() scheduler.TimerSettings {
	return scheduler.TimerSettings{
		PomodoroDuration:   t.PomodoroDuration,
		ShortBreakDuration: t.ShortBreakDuration,
		EarlyBirdMode:      t.EarlyBirdMode,
		NightOwlMode:       t.NightOwlMode,
		WorkStartHour:      t.WorkStartHour,
		WorkEndHour:        t.WorkEndHour,
	}
}

type Store struct {
	db  *db.DB
	now func() time.Time
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx, now: time.Now}
}

// Get returns the stored settings, or the defaults when the user has none.
func (s *Store) Get(ctx context.Context, userID int) (Timer, error) {
	var (
		t       Timer
		updated db.Timestamp
	)
	err := s.db.QueryRow(ctx, `
		SELECT pomodoro_duration, short_break_duration, long_break_duration,
			early_bird_mode, night_owl_mode, work_start_hour, work_end_hour, updated_at
		FROM timer_settings
		WHERE user_id = ?
	`, userID).Scan(
		&t.PomodoroDuration, &t.ShortBreakDuration, &t.LongBreakDuration,
		&t.EarlyBirdMode, &t.NightOwlMode, &t.WorkStartHour, &t.WorkEndHour, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTimer(), nil
	}
	if err != nil {
		return Timer{}, fmt.Errorf("get timer settings: %w", err)
	}
	t.UpdatedAt = updated.Time
	return t, nil
}

func (s *Store) Save(ctx context.Context, userID int, t Timer) (Timer, error) {
	if err := t.Validate(); err != nil {
		return Timer{}, err
	}
	t.UpdatedAt = s.now().UTC()

	_, err := s.db.Exec(ctx, `
		INSERT INTO timer_settings (
			user_id, pomodoro_duration, short_break_duration, long_break_duration,
			early_bird_mode, night_owl_mode, work_start_hour, work_end_hour, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			pomodoro_duration = excluded.pomodoro_duration,
			short_break_duration = excluded.short_break_duration,
			long_break_duration = excluded.long_break_duration,
			early_bird_mode = excluded.early_bird_mode,
			night_owl_mode = excluded.night_owl_mode,
			work_start_hour = excluded.work_start_hour,
			work_end_hour = excluded.work_end_hour,
			updated_at = excluded.updated_at
	`, userID, t.PomodoroDuration, t.ShortBreakDuration, t.LongBreakDuration,
		t.EarlyBirdMode, t.NightOwlMode, t.WorkStartHour, t.WorkEndHour, s.db.Time(t.UpdatedAt),
	)
	if err != nil {
		return Timer{}, fmt.Errorf("save timer settings: %w", err)
	}
	return t, nil
}

// ApplyDurations copies work and break durations into the user's settings,
// keeping everything else as stored.
func (s *Store) ApplyDurations(ctx context.Context, userID, work, shortBreak, longBreak int) (Timer, error) {
	t, err := s.Get(ctx, userID)
	if err != nil {
		return Timer{}, err
	}
	t.PomodoroDuration = work
	t.ShortBreakDuration = shortBreak
	t.LongBreakDuration = longBreak
	return s.Save(ctx, userID, t)
}
