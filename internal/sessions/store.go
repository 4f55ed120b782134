package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"focus-planner-backend/internal/db"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrInvalid  = errors.New("invalid session")

	ErrAlreadyCompleted = errors.New("session already completed")
)

type Store struct {
	db *db.DB
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx}
}

func (s Session) validate() error {
	switch {
	case s.UserID <= 0:
		return fmt.Errorf("%w: user_id is required", ErrInvalid)
	case !s.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, s.Type)
	case s.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalid)
	case s.StartedAt.IsZero():
		return fmt.Errorf("%w: started_at is required", ErrInvalid)
	case s.InterruptionCount < 0:
		return fmt.Errorf("%w: interruption_count must not be negative", ErrInvalid)
	}
	return nil
}

// Record stores a session, assigning an id when it has none.
func (s *Store) Record(ctx context.Context, sess Session) (Session, error) {
	if err := sess.validate(); err != nil {
		return Session{}, err
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.InterruptionCount > 0 {
		sess.Interrupted = true
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO focus_sessions (
			id, user_id, task_id, type, duration,
			started_at, completed_at, is_completed, interrupted, interruption_count
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.UserID, nullInt(sess.TaskID), string(sess.Type), sess.Duration,
		s.db.Time(sess.StartedAt), s.db.NullTime(sess.CompletedAt), sess.IsCompleted, sess.Interrupted, sess.InterruptionCount,
	)
	if err != nil {
		return Session{}, fmt.Errorf("record session: insert: %w", err)
	}
	return sess, nil
}

// Complete marks an open session finished. interruptions is added to the
// stored count. A session that already has completed_at is left untouched.
func (s *Store) Complete(ctx context.Context, userID int, id string, completedAt time.Time, completed bool, interruptions int) (Session, error) {
	if interruptions < 0 {
		return Session{}, fmt.Errorf("%w: interruptions must not be negative", ErrInvalid)
	}

	res, err := s.db.Exec(ctx, `
		UPDATE focus_sessions
		SET completed_at = ?,
			is_completed = ?,
			interruption_count = interruption_count + ?,
			interrupted = CASE WHEN interruption_count + ? > 0 THEN TRUE ELSE interrupted END
		WHERE id = ? AND user_id = ? AND completed_at IS NULL
	`, s.db.Time(completedAt), completed, interruptions, interruptions, id, userID)
	if err != nil {
		return Session{}, fmt.Errorf("complete session: update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.Get(ctx, userID, id); err != nil {
			return Session{}, err
		}
		return Session{}, ErrAlreadyCompleted
	}
	return s.Get(ctx, userID, id)
}

const selectColumns = `
	SELECT id, user_id, task_id, type, duration,
		started_at, completed_at, is_completed, interrupted, interruption_count
	FROM focus_sessions`

func (s *Store) Get(ctx context.Context, userID int, id string) (Session, error) {
	row := s.db.QueryRow(ctx, selectColumns+` WHERE id = ? AND user_id = ?`, id, userID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ListSince returns the user's sessions started at or after since, oldest
// first. An empty kind returns every type.
func (s *Store) ListSince(ctx context.Context, userID int, since time.Time, kind Type) ([]Session, error) {
	query := selectColumns + ` WHERE user_id = ? AND started_at >= ?`
	args := []any{userID, s.db.Time(since)}
	if kind != "" {
		query += ` AND type = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY started_at ASC, id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: query: %w", err)
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		sess        Session
		kind        string
		taskID      sql.NullInt64
		startedAt   db.Timestamp
		completedAt db.Timestamp
	)
	err := sc.Scan(
		&sess.ID, &sess.UserID, &taskID, &kind, &sess.Duration,
		&startedAt, &completedAt, &sess.IsCompleted, &sess.Interrupted, &sess.InterruptionCount,
	)
	if err != nil {
		return Session{}, err
	}

	sess.Type = Type(kind)
	if taskID.Valid {
		id := int(taskID.Int64)
		sess.TaskID = &id
	}
	sess.StartedAt = startedAt.Time
	sess.CompletedAt = completedAt.Ptr()
	return sess, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
