package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blazectl/internal/modules/session/domain"
	sessionout "blazectl/internal/modules/session/port/out"
	apperrors "blazectl/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteRecordIndex struct {
	db *sql.DB
}

func NewSQLiteRecordIndex(dbPath string) (*SQLiteRecordIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w: %w", apperrors.ErrIO, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	index := &SQLiteRecordIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

var _ sessionout.RecordIndex = (*SQLiteRecordIndex)(nil)

func (s *SQLiteRecordIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  activity TEXT NOT NULL,
  start_at TEXT NOT NULL,
  end_at TEXT NOT NULL,
  duration_sec INTEGER NOT NULL,
  day TEXT NOT NULL,
  PRIMARY KEY (activity, start_at)
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteRecordIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SQLiteRecordIndex) Upsert(ctx context.Context, record domain.Record) error {
	const stmt = `
INSERT INTO sessions (activity, start_at, end_at, duration_sec, day)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(activity, start_at) DO UPDATE SET
  end_at=excluded.end_at,
  duration_sec=excluded.duration_sec,
  day=excluded.day;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.Activity.String(),
		record.Start.UTC().Format(time.RFC3339),
		record.End.UTC().Format(time.RFC3339),
		int64(record.Duration/time.Second),
		record.Start.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteRecordIndex) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT activity, start_at, end_at, duration_sec
FROM sessions
ORDER BY start_at DESC, activity ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Record, 0, limit)
	for rows.Next() {
		var activity, start, end string
		var seconds int64
		if err := rows.Scan(&activity, &start, &end, &seconds); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		record, err := rowRecord(activity, start, end, seconds)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteRecordIndex) Close() error {
	return s.db.Close()
}

func rowRecord(activity, start, end string, seconds int64) (domain.Record, error) {
	a, err := domain.ParseActivity(activity)
	if err != nil {
		return domain.Record{}, fmt.Errorf("index row: %w: %w", apperrors.ErrParse, err)
	}
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return domain.Record{}, fmt.Errorf("index row start: %w: %w", apperrors.ErrParse, err)
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return domain.Record{}, fmt.Errorf("index row end: %w: %w", apperrors.ErrParse, err)
	}
	return domain.Record{
		Activity: a,
		Start:    startAt.UTC(),
		End:      endAt.UTC(),
		Duration: time.Duration(seconds) * time.Second,
	}, nil
}
