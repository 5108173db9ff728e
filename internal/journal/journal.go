package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one evaluation as the driver saw it. ErrorKind and ErrorMessage are empty on success.
type Run struct {
	ID           int64
	Source       string
	Program      string
	Value        string
	ErrorKind    string
	ErrorMessage string
	Duration     time.Duration
	StartedAt    time.Time
}

func (r Run) Failed() bool {
	return r.ErrorKind != "" || r.ErrorMessage != ""
}

type dialect struct {
	createTable string
	// placeholder renders the n-th (1-based) bind parameter
	placeholder func(n int) string
	// returningID is set for drivers without LastInsertId support
	returningID bool
}

func questionMark(int) string { return "?" }
func dollar(n int) string     { return "$" + strconv.Itoa(n) }

var dialects = map[string]dialect{
	"sqlite3": {
		createTable: `CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			program TEXT NOT NULL,
			value TEXT NOT NULL,
			error_kind TEXT NOT NULL,
			error_message TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			started_at INTEGER NOT NULL
		)`,
		placeholder: questionMark,
	},
	"mysql": {
		createTable: `CREATE TABLE IF NOT EXISTS runs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			source VARCHAR(1024) NOT NULL,
			program LONGTEXT NOT NULL,
			value LONGTEXT NOT NULL,
			error_kind VARCHAR(64) NOT NULL,
			error_message TEXT NOT NULL,
			duration_ns BIGINT NOT NULL,
			started_at BIGINT NOT NULL
		)`,
		placeholder: questionMark,
	},
	"postgres": {
		createTable: `CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			program TEXT NOT NULL,
			value TEXT NOT NULL,
			error_kind TEXT NOT NULL,
			error_message TEXT NOT NULL,
			duration_ns BIGINT NOT NULL,
			started_at BIGINT NOT NULL
		)`,
		placeholder: dollar,
		returningID: true,
	},
}

// Drivers lists the supported database/sql driver names.
func Drivers() []string {
	return []string{"sqlite3", "mysql", "postgres"}
}

type Journal struct {
	db      *sql.DB
	driver  string
	dialect dialect
}

// Open connects to the journal database and creates the runs table if it is missing.
func Open(ctx context.Context, driver, dsn string) (*Journal, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported journal driver '%s', expected one of %s", driver, strings.Join(Drivers(), ", "))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s journal: %w", driver, err)
	}
	if driver == "sqlite3" {
		// every sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s journal: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	slog.Debug("journal opened", slog.String("driver", driver))
	return &Journal{db: db, driver: driver, dialect: d}, nil
}

func (j *Journal) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = j.dialect.placeholder(i + 1)
	}
	return strings.Join(marks, ", ")
}

// Record stores run and returns its id.
func (j *Journal) Record(ctx context.Context, run Run) (int64, error) {
	query := "INSERT INTO runs (source, program, value, error_kind, error_message, duration_ns, started_at) VALUES (" +
		j.placeholders(7) + ")"
	args := []any{
		run.Source,
		run.Program,
		run.Value,
		run.ErrorKind,
		run.ErrorMessage,
		run.Duration.Nanoseconds(),
		run.StartedAt.UnixNano(),
	}

	var id int64
	if j.dialect.returningID {
		if err := j.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record run: %w", err)
		}
	} else {
		result, err := j.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to record run: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read run id: %w", err)
		}
	}

	slog.Debug("run recorded",
		slog.Int64("id", id),
		slog.String("source", run.Source),
		slog.Bool("failed", run.Failed()))
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := "SELECT id, source, program, value, error_kind, error_message, duration_ns, started_at FROM runs ORDER BY id DESC LIMIT " +
		j.dialect.placeholder(1)
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var duration, started int64
		if err := rows.Scan(&run.ID, &run.Source, &run.Program, &run.Value, &run.ErrorKind, &run.ErrorMessage, &duration, &started); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		run.Duration = time.Duration(duration)
		run.StartedAt = time.Unix(0, started)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (j *Journal) Driver() string {
	return j.driver
}

func (j *Journal) Close() error {
	return j.db.Close()
}
