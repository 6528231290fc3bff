package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/stamp/internal/db"
)

// Store provides CRUD operations for render runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a run. If run.ID is empty a UUID is generated; a zero
// StartedAt becomes the current time. The stored ID is returned.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var finishedAt, runErr sql.NullString
	if run.FinishedAt != nil {
		finishedAt = sql.NullString{String: run.FinishedAt.UTC().Format(time.DateTime), Valid: true}
	}
	if run.Error != "" {
		runErr = sql.NullString{String: run.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO render_runs (
			id, started_at, finished_at, source, target, locale, timezone,
			files, elements, invalid, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.DateTime),
		finishedAt,
		string(run.Source),
		run.Target,
		run.Locale,
		run.Timezone,
		run.Files,
		run.Elements,
		run.Invalid,
		runErr,
	)
	if err != nil {
		return "", fmt.Errorf("inserting render run: %w", err)
	}
	return run.ID, nil
}

// GetByID retrieves a single run.
func (s *Store) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, source, target, locale, timezone,
			   files, elements, invalid, error
		FROM render_runs WHERE id = ?`, id)

	return scanInto(row)
}

// Filter controls which runs are returned by List.
type Filter struct {
	Source Source
	Since  *time.Time
	Limit  int
	Offset int
}

// List returns runs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, started_at, finished_at, source, target, locale, timezone, files, elements, invalid, error FROM render_runs"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying render runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// DeleteBefore removes all runs started before the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM render_runs WHERE started_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old render runs: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Run, error) {
	var (
		r                  Run
		source             string
		startedAt          string
		finishedAt, runErr sql.NullString
	)

	err := sc.Scan(
		&r.ID, &startedAt, &finishedAt, &source, &r.Target, &r.Locale, &r.Timezone,
		&r.Files, &r.Elements, &r.Invalid, &runErr,
	)
	if err != nil {
		return nil, err
	}

	r.Source = Source(source)
	r.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		t := parseTime(finishedAt.String)
		r.FinishedAt = &t
	}
	if runErr.Valid {
		r.Error = runErr.String
	}
	return &r, nil
}

// parseTime accepts both the text format runs are written in and the RFC
// 3339 form the driver may hand back for DATETIME columns.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
