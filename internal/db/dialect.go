package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the SQL flavour a store speaks.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// sqliteTimeLayout is fixed width so that TEXT comparisons order like instants.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return Postgres, nil
	}
	if d == "sqlite3" {
		d = SQLite
	}
	if !d.Valid() {
		return "", fmt.Errorf("unknown db driver %q", s)
	}
	return d, nil
}

func (d Dialect) Valid() bool {
	return d == Postgres || d == SQLite
}

func (d Dialect) DriverName() string {
	return string(d)
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Time converts t into a bind argument. SQLite keeps timestamps as UTC text.
func (d Dialect) Time(t time.Time) any {
	if d == SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// NullTime is Time for optional columns.
func (d Dialect) NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.Time(*t)
}

// Timestamp scans a timestamp column from either dialect.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time, ts.Valid = time.Time{}, false
		return nil
	case time.Time:
		ts.Time, ts.Valid = v, true
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("timestamp: unsupported type %T", src)
	}
}

// Ptr returns nil for NULL.
func (ts Timestamp) Ptr() *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (ts *Timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		ts.Time, ts.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time, ts.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", s)
}
