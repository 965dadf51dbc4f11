package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"blitzlog/internal/domain/event"
)

// Default SQLite tuning.
const (
	defaultBusyTimeout = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS match_events (
	id           TEXT PRIMARY KEY,
	event_type   TEXT NOT NULL,
	half         INTEGER NOT NULL,
	turn         INTEGER NOT NULL,
	team         TEXT NOT NULL DEFAULT '',
	payload_json BLOB,
	created_at   INTEGER NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_match_events_created_at ON match_events (created_at);
`

// SQLiteStore is the persistent Store backed by a local SQLite file.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer keeps the sequence invariant trivial to hold.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append persists ev inside a transaction that re-reads the current
// maximum, so a stale sequence key can never land even if the caller's
// read-then-write raced.
func (s *SQLiteStore) Append(ctx context.Context, ev event.MatchEvent) error {
	payload, err := event.MarshalPayload(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var max sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(created_at) FROM match_events").Scan(&max); err != nil {
		return fmt.Errorf("read max created_at: %w", err)
	}
	if max.Valid && ev.CreatedAt <= max.Int64 {
		return ErrStaleSequence
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO match_events (id, event_type, half, turn, team, payload_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ev.ID, string(ev.Type), ev.Half, ev.Turn, string(ev.Team), payload, ev.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteByID removes the event with the given id.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM match_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLast removes and returns the chronologically last event.
func (s *SQLiteStore) DeleteLast(ctx context.Context) (event.MatchEvent, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return event.MatchEvent{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, event_type, half, turn, team, payload_json, created_at FROM match_events ORDER BY created_at DESC LIMIT 1")
	last, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.MatchEvent{}, ErrEmptyLog
		}
		return event.MatchEvent{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM match_events WHERE id = ?", last.ID); err != nil {
		return event.MatchEvent{}, fmt.Errorf("delete last: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return event.MatchEvent{}, fmt.Errorf("commit: %w", err)
	}
	return last, nil
}

// Clear removes every event.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM match_events"); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

// ListAll returns the full log in ascending CreatedAt order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]event.MatchEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_type, half, turn, team, payload_json, created_at FROM match_events ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []event.MatchEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// Last returns the chronologically last event.
func (s *SQLiteStore) Last(ctx context.Context) (event.MatchEvent, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, event_type, half, turn, team, payload_json, created_at FROM match_events ORDER BY created_at DESC LIMIT 1")
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.MatchEvent{}, ErrEmptyLog
		}
		return event.MatchEvent{}, err
	}
	return ev, nil
}

// MaxCreatedAt returns the current maximum sequence key, 0 when empty.
func (s *SQLiteStore) MaxCreatedAt(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(created_at) FROM match_events").Scan(&max); err != nil {
		return 0, fmt.Errorf("read max created_at: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64, nil
}

// Count returns the number of events in the log.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM match_events").Scan(&n); err != nil {
		return 0
	}
	return n
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (event.MatchEvent, error) {
	var (
		ev      event.MatchEvent
		typ     string
		team    string
		payload []byte
	)
	if err := row.Scan(&ev.ID, &typ, &ev.Half, &ev.Turn, &team, &payload, &ev.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.MatchEvent{}, sql.ErrNoRows
		}
		return event.MatchEvent{}, fmt.Errorf("scan event: %w", err)
	}
	ev.Type = event.Type(typ)
	ev.Team = event.Team(team)

	p, err := event.UnmarshalPayload(ev.Type, payload)
	if err != nil {
		return event.MatchEvent{}, fmt.Errorf("decode payload: %w", err)
	}
	ev.Payload = p
	return ev, nil
}
