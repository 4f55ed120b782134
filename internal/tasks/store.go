package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"focus-planner-backend/internal/db"
	"focus-planner-backend/internal/scheduler"
)

var (
	ErrNotFound = errors.New("task not found")
	ErrInvalid  = errors.New("invalid task")
)

// MaxEstimatedPomodoros bounds a single task's estimate.
const MaxEstimatedPomodoros = 48

// OpenStatuses are the statuses a day plan is built from.
var OpenStatuses = []scheduler.Status{scheduler.StatusPending, scheduler.StatusInProgress}

type Store struct {
	db  *db.DB
	now func() time.Time
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx, now: time.Now}
}

func (s *Store) Create(ctx context.Context, userID int, req CreateTaskRequest) (Task, error) {
	t := Task{
		UserID:             userID,
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		Priority:           req.Priority,
		Status:             scheduler.StatusPending,
		EstimatedPomodoros: req.EstimatedPomodoros,
		Category:           strings.TrimSpace(req.Category),
		DueDate:            req.DueDate,
	}
	if t.Priority == "" {
		t.Priority = scheduler.PriorityMedium
	}

	switch {
	case t.Title == "":
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
	case !validPriority(t.Priority):
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalid, t.Priority)
	case t.EstimatedPomodoros < 0:
		return Task{}, fmt.Errorf("%w: estimated_pomodoros must not be negative", ErrInvalid)
	case t.EstimatedPomodoros > MaxEstimatedPomodoros:
		return Task{}, fmt.Errorf("%w: estimated_pomodoros must be at most %d", ErrInvalid, MaxEstimatedPomodoros)
	}

	now := s.now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	err := s.db.QueryRow(ctx, `
		INSERT INTO tasks (
			user_id, title, description, priority, status,
			estimated_pomodoros, category, due_date, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, userID, t.Title, t.Description, string(t.Priority), string(t.Status),
		t.EstimatedPomodoros, t.Category, s.db.NullTime(t.DueDate), s.db.Time(now), s.db.Time(now),
	).Scan(&t.ID)
	if err != nil {
		return Task{}, fmt.Errorf("create task: insert: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateStatus(ctx context.Context, userID, taskID int, status scheduler.Status) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	res, err := s.db.Exec(ctx, `
		UPDATE tasks SET status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, string(status), s.db.Time(s.now()), taskID, userID)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, taskID int) error {
	res, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, user_id, title, description, priority, status,
		estimated_pomodoros, category, due_date, created_at, updated_at
	FROM tasks`

// List returns the user's tasks, highest priority first, oldest first within
// a priority. No statuses means every status.
func (s *Store) List(ctx context.Context, userID int, statuses ...scheduler.Status) ([]Task, error) {
	query := selectColumns + ` WHERE user_id = ?`
	args := []any{userID}

	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, st := range statuses {
			names[i] = string(st)
		}
		if s.db.Dialect == db.Postgres {
			query += ` AND status = ANY(?)`
			args = append(args, pq.Array(names))
		} else {
			query += ` AND status IN (?` + strings.Repeat(`, ?`, len(names)-1) + `)`
			for _, n := range names {
				args = append(args, n)
			}
		}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: query: %w", err)
	}
	defer rows.Close()

	result := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: scan: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: rows: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		pi, pj := priorityWeight(result[i].Priority), priorityWeight(result[j].Priority)
		if pi != pj {
			return pi > pj
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *Store) Get(ctx context.Context, userID, taskID int) (Task, error) {
	row := s.db.QueryRow(ctx, selectColumns+` WHERE id = ? AND user_id = ?`, taskID, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (Task, error) {
	var (
		t                 Task
		priority, status  string
		due, created, upd db.Timestamp
	)
	err := sc.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &priority, &status,
		&t.EstimatedPomodoros, &t.Category, &due, &created, &upd,
	)
	if err != nil {
		return Task{}, err
	}
	t.Priority = scheduler.Priority(priority)
	t.Status = scheduler.Status(status)
	t.DueDate = due.Ptr()
	t.CreatedAt = created.Time
	t.UpdatedAt = upd.Time
	return t, nil
}
