package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the slow-query threshold used when none is configured.
const DefaultSlowQuery = 50 * time.Millisecond

// ParseSlowQuery turns a millisecond count (PORTAL_SLOW_QUERY_MS) into a threshold.
// Empty, malformed or non-positive values fall back to DefaultSlowQuery.
func ParseSlowQuery(ms string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil || n <= 0 {
		return DefaultSlowQuery
	}
	return time.Duration(n) * time.Millisecond
}

// TimedDB wraps a *sql.DB and logs every statement with the table it touched.
// Statements at or above the threshold are logged at Warn as slow_query.
type TimedDB struct {
	db        *sql.DB
	threshold time.Duration
	count     atomic.Int64
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid database connection; threshold > 0
// POST: Returns a TimedDB that satisfies SQLDB
func NewTimedDB(db *sql.DB, threshold time.Duration) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	return &TimedDB{db: db, threshold: threshold}
}

// QueryCount returns how many statements have run through this wrapper.
func (t *TimedDB) QueryCount() int64 {
	return t.count.Load()
}

func (t *TimedDB) observe(ctx context.Context, op, query string, start time.Time) {
	t.count.Add(1)
	elapsed := time.Since(start)

	level, msg := slog.LevelDebug, "query"
	if elapsed >= t.threshold {
		level, msg = slog.LevelWarn, "slow_query"
	}
	slog.Log(ctx, level, msg,
		"op", op,
		"table", tableOf(query),
		"duration_ms", float64(elapsed.Microseconds())/1000.0,
	)
}

// tableOf names the table a statement reads or writes, or "" when there is none.
// Only the identifier following FROM, INTO, UPDATE or TABLE is considered; arguments never appear.
func tableOf(query string) string {
	words := strings.Fields(query)
	for i := 0; i+1 < len(words); i++ {
		switch strings.ToUpper(words[i]) {
		case "FROM", "INTO", "UPDATE", "TABLE":
			next := words[i+1]
			if strings.EqualFold(next, "IF") {
				// CREATE TABLE IF NOT EXISTS name
				if i+4 < len(words) {
					next = words[i+4]
				}
			}
			return strings.Trim(next, "(;`\"")
		}
	}
	return ""
}

// ExecContext runs a statement and records its timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(ctx, "exec", query, start)
	return result, err
}

// QueryContext runs a query and records its timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(ctx, "query", query, start)
	return rows, err
}

// QueryRowContext runs a single-row query and records its timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(ctx, "query_row", query, start)
	return row
}
