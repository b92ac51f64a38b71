package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Decision is one recorded thumbnail pick.
type Decision struct {
	ID         int64
	RunID      string
	VideoID    string
	Reason     string
	Score      *float64
	URL        string
	Width      int
	Height     int
	Active     bool
	RecordedAt time.Time
}

const ledgerPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store persists decisions in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the ledger at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("audit ledger path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection, so concurrent
	// Record calls wait on the lock instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+ledgerPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends d. A zero RecordedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, d Decision) error {
	if s == nil || s.db == nil {
		return nil
	}
	if d.RecordedAt.IsZero() {
		d.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO thumbnail_decisions (
            run_id, video_id, reason, score, url, width, height, active, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.RunID,
		d.VideoID,
		d.Reason,
		nullableFloat(d.Score),
		d.URL,
		d.Width,
		d.Height,
		boolToInt(d.Active),
		d.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision for %s: %w", d.VideoID, err)
	}
	return nil
}

// Filter narrows Recent.
type Filter struct {
	VideoID string
	RunID   string
	Limit   int
}

// Recent returns the newest decisions first.
func (s *Store) Recent(ctx context.Context, filter Filter) ([]Decision, error) {
	var (
		clauses []string
		args    []any
	)
	if v := strings.TrimSpace(filter.VideoID); v != "" {
		clauses = append(clauses, "video_id = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(filter.RunID); v != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, v)
	}
	query := `SELECT id, run_id, video_id, reason, score, url, width, height, active, recorded_at
        FROM thumbnail_decisions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

func scanDecision(scanner interface{ Scan(dest ...any) error }) (Decision, error) {
	var (
		d        Decision
		score    sql.NullFloat64
		active   int
		recorded string
	)
	if err := scanner.Scan(&d.ID, &d.RunID, &d.VideoID, &d.Reason, &score, &d.URL, &d.Width, &d.Height, &active, &recorded); err != nil {
		return Decision{}, fmt.Errorf("scan decision: %w", err)
	}
	if score.Valid {
		v := score.Float64
		d.Score = &v
	}
	d.Active = active != 0
	ts, err := time.Parse(time.RFC3339Nano, recorded)
	if err != nil {
		return Decision{}, fmt.Errorf("parse recorded_at %q: %w", recorded, err)
	}
	d.RecordedAt = ts
	return d, nil
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
