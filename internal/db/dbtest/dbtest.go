// Package dbtest opens throwaway databases for store tests.
package dbtest

import (
	"context"
	"testing"

	"focus-planner-backend/internal/db"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t testing.TB) *db.DB {
	t.Helper()

	h, err := db.Open(context.Background(), db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}
