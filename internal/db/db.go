package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Connect opens a pool for the dialect and checks it with a ping.
func Connect(d Dialect, connString string) (*sql.DB, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("connect: unsupported driver %q", d)
	}

	db, err := sql.Open(d.DriverName(), connString)
	if err != nil {
		return nil, fmt.Errorf("connect: open: %w", err)
	}

	if d == SQLite {
		// every connection to ":memory:" is a separate database
		if strings.Contains(connString, ":memory:") {
			db.SetMaxOpenConns(1)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect: ping: %w", err)
	}

	return db, nil
}
