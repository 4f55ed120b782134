package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DB is a pool bound to its dialect. Queries are written with '?' and
// rebound on the way out.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
}

func New(sqlDB *sql.DB, d Dialect) *DB {
	return &DB{SQL: sqlDB, Dialect: d}
}

// Open connects and runs the migrator.
func Open(ctx context.Context, d Dialect, connString string) (*DB, error) {
	sqlDB, err := Connect(d, connString)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, sqlDB, d); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return New(sqlDB, d), nil
}

func (h *DB) Close() error {
	return h.SQL.Close()
}

func (h *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return h.SQL.ExecContext(ctx, h.Dialect.Rebind(query), args...)
}

func (h *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return h.SQL.QueryContext(ctx, h.Dialect.Rebind(query), args...)
}

func (h *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return h.SQL.QueryRowContext(ctx, h.Dialect.Rebind(query), args...)
}

func (h *DB) Time(t time.Time) any {
	return h.Dialect.Time(t)
}

func (h *DB) NullTime(t *time.Time) any {
	return h.Dialect.NullTime(t)
}

// InTx runs fn in a transaction, committing only if fn returns nil.
func (h *DB) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := h.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&Tx{tx: sqlTx, dialect: h.Dialect}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
}
