// Package history records model runs in an SQL database.
//
// PostgreSQL and MySQL are supported. The table is created on first use; each
// run is one row holding the parameters sent, the outcome and its duration.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"evah-sdk/models"
)

// Database types accepted by Open
const (
	DBTypePostgres = "postgresql"
	DBTypeMySQL    = "mysql"
)

// TableName is the table runs are stored in
const TableName = "evah_runs"

// pingTimeout bounds the connectivity check of Open
const pingTimeout = 5 * time.Second

// Outcome values stored per run
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Entry is one recorded run
type Entry struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Variant   string
	Params    models.ParameterSet
	Outcome   string
	// FailureKind is "transport", "decode" or "application" for failed runs
	FailureKind string
	Message     string
}

// Store is a run history backed by database/sql
type Store struct {
	db     *sql.DB
	dbType string
}

// DriverName maps a database type to its database/sql driver name
func DriverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case DBTypePostgres, "postgres":
		return "postgres", nil
	case DBTypeMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported history database type %q (want %s or %s)", dbType, DBTypePostgres, DBTypeMySQL)
	}
}

// Open connects to the database, checks it is reachable and creates the
// history table when missing.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("history database DSN is empty")
	}

	if driver == "mysql" {
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db, dbType: driver}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL(s.dbType)); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return nil
}

// Record stores one run
func (s *Store) Record(ctx context.Context, e Entry) error {
	params, err := json.Marshal(e.Params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertSQL(s.dbType),
		e.RunID, e.StartedAt.UTC(), e.Duration.Milliseconds(), e.Variant,
		string(params), e.Outcome, e.FailureKind, e.Message)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", e.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, recentSQL(s.dbType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		var params string
		if err := rows.Scan(&e.RunID, &e.StartedAt, &durationMS, &e.Variant, &params, &e.Outcome, &e.FailureKind, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run history: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(params), &e.Params); err != nil {
			return nil, fmt.Errorf("failed to decode parameters of run %s: %w", e.RunID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// mysqlDSN turns on parseTime so started_at scans into a time.Time
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func createTableSQL(driver string) string {
	ts := "TIMESTAMP"
	if driver == "mysql" {
		ts = "DATETIME(3)"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id VARCHAR(64) PRIMARY KEY,
	started_at %s NOT NULL,
	duration_ms BIGINT NOT NULL,
	variant VARCHAR(16) NOT NULL,
	params TEXT NOT NULL,
	outcome VARCHAR(16) NOT NULL,
	failure_kind VARCHAR(32) NOT NULL,
	message TEXT NOT NULL
)`, TableName, ts)
}

func insertSQL(driver string) string {
	return fmt.Sprintf("INSERT INTO %s (run_id, started_at, duration_ms, variant, params, outcome, failure_kind, message) VALUES (%s)",
		TableName, placeholders(driver, 8))
}

func recentSQL(driver string) string {
	return fmt.Sprintf("SELECT run_id, started_at, duration_ms, variant, params, outcome, failure_kind, message FROM %s ORDER BY started_at DESC LIMIT %s",
		TableName, placeholders(driver, 1))
}

// placeholders returns n bind parameters in the driver's syntax
func placeholders(driver string, n int) string {
	ps := make([]string, n)
	for i := range ps {
		if driver == "postgres" {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}
